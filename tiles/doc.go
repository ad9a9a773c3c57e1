// Package tiles organises an append only mmr into fixed shape tiles.
//
// A tile owns a contiguous range of mmr indices. Tiles are defined by the
// fixed number of *leaves* they contain, which we require to be a power of
// two. A tile of height H holds 1<<H leaves, plus every interior node whose
// addition is triggered by those leaves. The node count therefore varies
// tile to tile: interior nodes which 'over hang' the leaves of earlier
// tiles always land in the tile of the leaf that completed them.
//
// This is the corresponding 'position' tree for height 2 tiles, with
// indication of how the MMR is 'chunked':
//
//	3        \   15   tile 1   \
//	          \/    \           \
//	   tile 0 /\     \           |  the 'alpine zone' is above the tile line
//	         /   \    \          |
//	2 ..... 7.....|....14........|...... 22 .....
//	      /   \   |   /   \      |      /
//	1    3     6  | 10     13    |    18     21
//	    / \  /  \ | / \    /  \  |   /  \
//	   1   2 4   5| 8   9 11   12| 16   17 19 20
//	   0   1 3   4| 7   8 10   11| 15   16 18 19  (index tree)
//	   | tile 0   |  tile 1      | tile 2 ....>
//
// Adding a node references only nodes in the current tile OR a subset of the
// peaks of the mmr state at the tile's first index. Those ancestor peaks are
// carried in a stack at the front of every tile, which makes each tile self
// contained: an inclusion proof for any node in the tile, against any state
// the tile covers, resolves entirely within the tile image.
//
// Tiles are persisted through a minimal storage provider contract with
// optimistic concurrency. A relational single table realisation is provided
// in storage/sqlstore, and an in memory one in storage/memorystore.
package tiles
