// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command rscodecbench drives the codec from the command line: encode a
// block of random data into data+recovery shards, erase a chosen number of
// them, decode, and report whether the round trip was clean along with
// throughput.
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	mrand "math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/rscodec"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "rscodecbench"
	myApp.Usage = "erasure-code round-trip driver and throughput benchmark"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "datashard,ds",
			Value: 10,
			Usage: "number of original data shards",
		},
		cli.IntFlag{
			Name:  "parityshard,ps",
			Value: 3,
			Usage: "number of recovery shards",
		},
		cli.IntFlag{
			Name:  "size",
			Value: 4096,
			Usage: "shard size in bytes, must be a positive multiple of 64",
		},
		cli.IntFlag{
			Name:  "erase",
			Value: -1,
			Usage: "how many original shards to erase before decoding, default: parityshard",
		},
		cli.IntFlag{
			Name:  "rounds",
			Value: 1,
			Usage: "number of encode/decode rounds to run, for throughput averaging",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress per-round logging, print only the summary",
		},
	}
	myApp.Action = run
	if err := myApp.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(c *cli.Context) error {
	k := c.Int("datashard")
	r := c.Int("parityshard")
	size := c.Int("size")
	rounds := c.Int("rounds")
	quiet := c.Bool("quiet")

	erase := c.Int("erase")
	if erase < 0 {
		erase = r
	}
	if erase > r {
		return errors.Errorf("erase count %d exceeds parityshard %d: not enough recovery shards to cover the loss", erase, r)
	}

	codec, err := rscodec.NewCodec(k, r)
	if err != nil {
		return errors.Wrap(err, "NewCodec")
	}

	log.Println("datashard:", k, "parityshard:", r, "size:", size, "erase:", erase, "rounds:", rounds)

	var encodeTotal, decodeTotal time.Duration
	var totalBytes int64
	for round := 0; round < rounds; round++ {
		shards := randomShards(k+r, size)
		originals := cloneShards(shards[:k])

		t0 := time.Now()
		if err := codec.Encode(shards); err != nil {
			return errors.Wrapf(err, "Encode round %d", round)
		}
		encodeTotal += time.Since(t0)

		erased := eraseRandom(shards[:k], erase)

		t1 := time.Now()
		if err := codec.Reconstruct(shards); err != nil {
			return errors.Wrapf(err, "Reconstruct round %d", round)
		}
		decodeTotal += time.Since(t1)

		for _, i := range erased {
			if !bytesEqual(shards[i], originals[i]) {
				return errors.Errorf("round %d: shard %d did not reconstruct to its original contents", round, i)
			}
		}
		totalBytes += int64(k * size)

		if !quiet {
			log.Printf("round %d: ok, erased %v", round, erased)
		}
	}

	mb := float64(totalBytes) / (1 << 20)
	fmt.Printf("encode: %.2f MB/s\n", mb/encodeTotal.Seconds())
	fmt.Printf("decode: %.2f MB/s\n", mb/decodeTotal.Seconds())
	return nil
}

func randomShards(n, size int) [][]byte {
	shards := make([][]byte, n)
	for i := range shards {
		b := make([]byte, size)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("%+v", errors.Wrap(err, "rand.Read"))
		}
		shards[i] = b
	}
	return shards
}

func cloneShards(shards [][]byte) [][]byte {
	out := make([][]byte, len(shards))
	for i, s := range shards {
		out[i] = append([]byte(nil), s...)
	}
	return out
}

// eraseRandom nils out n distinct indices of shards and returns them sorted.
func eraseRandom(shards [][]byte, n int) []int {
	idx := mrand.Perm(len(shards))[:n]
	for _, i := range idx {
		shards[i] = nil
	}
	// insertion sort: n is always small (bounded by parityshard)
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && idx[j-1] > idx[j]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
	return idx
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

