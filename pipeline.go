// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package pdfprocessor

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// Split runs Extract and Dump in one process, connected by an in-memory
// pipe, and returns the first error of either side. Cancelling ctx closes
// the pipe, which stops both.
func (p *Processor) Split(ctx context.Context, path string, sink Sink) error {
	if p.engine == nil {
		return ErrNoEngine
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	stop := context.AfterFunc(gctx, func() {
		_ = pw.CloseWithError(context.Cause(gctx))
		_ = pr.CloseWithError(context.Cause(gctx))
	})
	defer stop()

	var extractErr, dumpErr error
	g.Go(func() error {
		extractErr = p.Extract(path, pw)
		_ = pw.CloseWithError(extractErr)
		return extractErr
	})
	g.Go(func() error {
		dumpErr = p.Dump(pr, sink)
		// Unblocks the producer if the consumer stopped early.
		_ = pr.CloseWithError(dumpErr)
		return dumpErr
	})
	_ = g.Wait()

	// A consumer failure makes the producer fail too; report the cause.
	switch {
	case dumpErr != nil && ctx.Err() == nil:
		return dumpErr
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return extractErr
	}
}
