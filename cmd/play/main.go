package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/player"
)

var (
	log = logrus.New()

	height    int
	width     int
	mineCount int
	seed      uint64
	verbose   bool
)

func init() {
	flag.IntVar(&height, "height", 9, "board height")
	flag.IntVar(&width, "width", 9, "board width")
	flag.IntVar(&mineCount, "mines", 10, "mine count")
	flag.Uint64Var(&seed, "seed", 0, "rng seed (0 for random)")
	flag.BoolVar(&verbose, "v", false, "log every turn")
}

func main() {
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	player.Log = log
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	r := rand.New(rand.NewPCG(seed, seed))

	b, err := board.New(board.Params{
		Height:    height,
		Width:     width,
		MineCount: mineCount,
	}, r)
	if err != nil {
		log.Fatal(err)
	}

	p := player.New(b, r)
	status := p.Play()

	summary := p.Summary()
	log.WithFields(logrus.Fields{
		"status":  status,
		"turns":   summary.Turns,
		"guesses": summary.Guesses,
		"seed":    seed,
	}).Info("playout finished")

	fmt.Println(b.String())
	if status == player.Lost {
		fmt.Println(b.RevealString())
		os.Exit(1)
	}
}
