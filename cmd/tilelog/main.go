// tilelog is a thin command line wrapper over a sqlite backed tiled mmr
// log. It exists for local inspection and integration smoke testing; the
// library packages are the product.
package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
	"github.com/robinbryce/mmriver-tiles-go/tiles"
	"github.com/robinbryce/mmriver-tiles-go/tiles/storage/sqlstore"
)

func main() {
	app := &cli.App{
		Name:  "tilelog",
		Usage: "append to and prove against a tiled mmr log",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "tilelog.db", Usage: "sqlite database path"},
			&cli.StringFlag{Name: "log-id", Value: "default", Usage: "log identity within the database"},
			&cli.UintFlag{Name: "tile-height", Value: 8, Usage: "tile height, must match the stored log"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Commands: []*cli.Command{
			appendCmd(),
			headCmd(),
			nodeCmd(),
			peaksCmd(),
			proveCmd(),
			consistencyCmd(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLog(cctx *cli.Context) (*tiles.TileLog, error) {

	logger := zap.NewNop()
	if cctx.Bool("verbose") {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	provider, err := sqlstore.Open(cctx.String("db"), cctx.String("log-id"))
	if err != nil {
		return nil, err
	}

	cfg := tiles.Config{TileHeight: uint8(cctx.Uint("tile-height"))}
	store, err := tiles.NewTileStore(cfg, provider, logger.Sugar())
	if err != nil {
		return nil, err
	}
	return tiles.NewTileLog(cfg, store, logger.Sugar())
}

func argUint64(cctx *cli.Context, i int, name string) (uint64, error) {
	if cctx.Args().Len() <= i {
		return 0, fmt.Errorf("missing argument: %s", name)
	}
	return strconv.ParseUint(cctx.Args().Get(i), 10, 64)
}

func appendCmd() *cli.Command {
	return &cli.Command{
		Name:  "append",
		Usage: "append leaf hashes; arguments are hex leaves, or use --generate",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "generate", Usage: "append N generated leaves instead of arguments"},
			&cli.Uint64Flag{Name: "first", Usage: "first generated leaf index"},
		},
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}

			var leaves [][]byte
			if n := cctx.Uint64("generate"); n > 0 {
				for e := cctx.Uint64("first"); e < cctx.Uint64("first")+n; e++ {
					h := sha256.New()
					b := [8]byte{}
					binary.BigEndian.PutUint64(b[:], e)
					h.Write(b[:])
					leaves = append(leaves, h.Sum(nil))
				}
			}
			for i := 0; i < cctx.Args().Len(); i++ {
				leaf, err := hex.DecodeString(cctx.Args().Get(i))
				if err != nil {
					return fmt.Errorf("leaf %d: %w", i, err)
				}
				leaves = append(leaves, leaf)
			}

			size, committed, err := log.Append(cctx.Context, leaves)
			if err != nil {
				return err
			}
			fmt.Printf("mmr size %d, %d tiles committed\n", size, committed)
			return nil
		},
	}
}

func headCmd() *cli.Command {
	return &cli.Command{
		Name:  "head",
		Usage: "print the last node index and the accumulator",
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}
			i, err := log.HeadIndex(cctx.Context)
			if err != nil {
				return err
			}
			fmt.Printf("index %d, leaves %d\n", i, mmr.LeafCount(i+1))
			peaks, err := log.PeakHashes(cctx.Context, i)
			if err != nil {
				return err
			}
			for _, p := range peaks {
				fmt.Println(hex.EncodeToString(p))
			}
			return nil
		},
	}
}

func nodeCmd() *cli.Command {
	return &cli.Command{
		Name:  "node",
		Usage: "print the value of node I",
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}
			i, err := argUint64(cctx, 0, "I")
			if err != nil {
				return err
			}
			value, err := log.Get(cctx.Context, i)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(value))
			return nil
		},
	}
}

func peaksCmd() *cli.Command {
	return &cli.Command{
		Name:  "peaks",
		Usage: "print the accumulator for complete state C",
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}
			c, err := argUint64(cctx, 0, "C")
			if err != nil {
				return err
			}
			peaks, err := log.PeakHashes(cctx.Context, mmr.CompleteMMR(c))
			if err != nil {
				return err
			}
			for _, p := range peaks {
				fmt.Println(hex.EncodeToString(p))
			}
			return nil
		},
	}
}

func proveCmd() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "produce an inclusion proof for node I against complete state C",
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}
			i, err := argUint64(cctx, 0, "I")
			if err != nil {
				return err
			}
			c, err := argUint64(cctx, 1, "C")
			if err != nil {
				return err
			}
			c = mmr.CompleteMMR(c)

			proof, err := log.InclusionProof(cctx.Context, c, i)
			if err != nil {
				return err
			}
			value, err := log.Get(cctx.Context, i)
			if err != nil {
				return err
			}
			for _, p := range proof {
				fmt.Println(hex.EncodeToString(p))
			}
			root := mmr.IncludedRoot(sha256.New(), i, value, proof)
			fmt.Printf("root %s\n", hex.EncodeToString(root))
			return nil
		},
	}
}

func consistencyCmd() *cli.Command {
	return &cli.Command{
		Name:  "consistency",
		Usage: "produce and check a consistency proof between complete states FROM and TO",
		Action: func(cctx *cli.Context) error {
			log, err := newLog(cctx)
			if err != nil {
				return err
			}
			ifrom, err := argUint64(cctx, 0, "FROM")
			if err != nil {
				return err
			}
			ito, err := argUint64(cctx, 1, "TO")
			if err != nil {
				return err
			}
			ifrom, ito = mmr.CompleteMMR(ifrom), mmr.CompleteMMR(ito)

			cp, err := log.ConsistencyProof(cctx.Context, ifrom, ito)
			if err != nil {
				return err
			}
			accFrom, err := log.PeakHashes(cctx.Context, ifrom)
			if err != nil {
				return err
			}
			accTo, err := log.PeakHashes(cctx.Context, ito)
			if err != nil {
				return err
			}
			ok, proven, err := mmr.VerifyConsistency(sha256.New(), cp, accFrom, accTo)
			if err != nil {
				return err
			}
			for _, r := range proven {
				fmt.Println(hex.EncodeToString(r))
			}
			fmt.Printf("consistent: %v\n", ok)
			return nil
		},
	}
}
