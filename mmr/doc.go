// Package mmr implements the node positioning algebra and proof mechanisms
// for a Merkle Mountain Range.
//
// An MMR is a strictly append-only binary hash structure. Its shape, at any
// size, is a sequence of perfect binary trees of strictly decreasing heights.
// The roots of those trees are the peaks, and the ordered list of peak values
// is the accumulator for that state.
//
// Everything in this package is defined over the *mmr index* space: the
// 0-based enumeration of every node, leaf and interior alike, in the order it
// is appended. The leaf index space enumerates only the leaves. Conversions
// between the two, node heights, peak enumeration and proof paths are all
// derived from the binary encoding of the index, so none of the functions
// here need to materialize the tree.
//
// All index arithmetic is 64-bit unsigned. The algebra is total on its domain
// and never touches storage; the only functions that read node values do so
// through the two-method NodeAppender capability so that both in-memory
// buffers and tiled persistent stores can drive them.
//
// References:
// * https://github.com/proofchains/python-proofmarshal/blob/master/proofmarshal/mmr.py
// * https://datatracker.ietf.org/doc/draft-bryce-cose-merkle-mountain-range-proofs/
package mmr
