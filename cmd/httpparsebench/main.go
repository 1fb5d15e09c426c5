// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command httpparsebench drives the parser over a file of concatenated
// requests (or a small built-in synthetic set) at a caller-chosen chunk
// size and reports throughput. A chunk size of 1 stresses the resumable
// state machine the way a byte-at-a-time socket read would.
//
// Grounded on the small flag-driven benchmark mains under
// ryanbekhen/ngebut/benchmarks/*, each comparing one library's throughput
// against a fixed workload.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/httpparse/httpparse"
	applog "github.com/httpparse/httpparse/internal/log"
)

func main() {
	file := pflag.StringP("file", "f", "", "file of concatenated HTTP/1.1 requests (defaults to a built-in sample)")
	chunkSize := pflag.IntP("chunk-size", "c", 1, "bytes fed to Parse per call; 1 stresses the resumable path")
	iterations := pflag.IntP("iterations", "n", 1, "number of times to replay the input")
	verbose := pflag.BoolP("verbose", "v", false, "set the log level to debug (per-request completion is not logged)")
	pflag.Parse()

	if *verbose {
		applog.SetLevel(applog.DebugLevel)
	}

	data := sampleRequests
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			applog.Error().Err(err).Msgf("reading %s", *file)
			os.Exit(1)
		}
		data = b
	}

	start := time.Now()
	var totalBytes int64
	var totalRequests int64

	for i := 0; i < *iterations; i++ {
		n, requests, err := run(data, *chunkSize)
		if err != nil {
			applog.Error().Err(err).Msg("parse run failed")
			os.Exit(1)
		}
		totalBytes += int64(n)
		totalRequests += int64(requests)
	}

	elapsed := time.Since(start)
	fmt.Printf("requests=%d bytes=%d elapsed=%s throughput=%.2f MiB/s\n",
		totalRequests, totalBytes, elapsed,
		float64(totalBytes)/elapsed.Seconds()/(1<<20))
}

// run feeds data through a single Parser in chunkSize-byte steps, counting
// completed requests and consumed bytes. Bodies are drained via ReadBody so
// pipelined requests are exercised too.
func run(data []byte, chunkSize int) (consumedTotal int, requests int, err error) {
	if chunkSize < 1 {
		chunkSize = 1
	}
	p := httpparse.NewParser(nil)
	reqStart := 0 // start, within data, of the request currently being parsed
	end := 0

	for end < len(data) {
		next := end + chunkSize
		if next > len(data) {
			next = len(data)
		}
		end = next

		// Drain as many complete, pipelined requests as the currently
		// buffered bytes allow before asking for more. Each request gets
		// its own logical buffer starting at reqStart, since Reset puts
		// the parser's cursor back to zero.
		for {
			buf := data[reqStart:end]
			consumed, perr := p.Parse(buf)
			if perr == httpparse.ErrMoreBytes {
				break
			}
			if perr != nil {
				return consumedTotal, requests, perr
			}

			for p.State() == httpparse.StateBodyIdentity || p.State() == httpparse.StateBodyChunkedData {
				n, _, berr := p.ReadBody(buf)
				if berr != nil {
					return consumedTotal, requests, berr
				}
				consumed += n
				if n == 0 {
					break // no more body bytes buffered yet
				}
			}

			if p.State() == httpparse.StateBodyChunkedCRLF {
				continue // chunk data done; let Parse take the rest of the body
			}
			if p.State() != httpparse.StateComplete {
				break
			}
			requests++
			reqStart += consumed
			consumedTotal = reqStart
			p.Reset()
		}
	}
	return consumedTotal, requests, nil
}

var sampleRequests = []byte(
	"GET /index.html HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n" +
		"POST /submit HTTP/1.1\r\nHost: example.com\r\nContent-Length: 11\r\n\r\nhello world" +
		"GET /chunked HTTP/1.1\r\nHost: example.com\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n",
)
