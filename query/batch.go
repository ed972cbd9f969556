package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/o0olele/svon-go/math32"
)

// PathRequest is one search of a batch.
type PathRequest struct {
	ID    string         `json:"id" yaml:"id"`
	Start math32.Vector3 `json:"start" yaml:"start"`
	End   math32.Vector3 `json:"end" yaml:"end"`
}

// PathResponse is the outcome of one PathRequest.
type PathResponse struct {
	ID     string `json:"id"`
	Path   *Path  `json:"path,omitempty"`
	Result Result `json:"result"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

// FindPaths runs the requests concurrently, at most limit at a time
// (limit <= 0 means unbounded). Responses are in request order. Per-request
// failures are reported in the responses; the returned error is only set
// when ctx ends before every request ran.
func (nq *NavigationQuery) FindPaths(ctx context.Context, reqs []PathRequest, limit int) ([]PathResponse, error) {
	responses := make([]PathResponse, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			req := reqs[i]
			path, res, err := nq.FindPath(gCtx, req.Start, req.End)
			responses[i] = PathResponse{ID: req.ID, Path: path, Result: res, Err: err}
			if err != nil {
				responses[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return responses, err
	}
	return responses, ctx.Err()
}
