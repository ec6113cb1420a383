package mirror

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
)

// DefaultTimeout is the time mirrors get to announce a digest.
const DefaultTimeout = 10 * time.Second

// Fetcher downloads a single URL without retrying.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome of a race.
type Result struct {
	// Digest is the announced digest.
	Digest mman.ID
	// URL is the artifact URL whose announcement arrived first.
	URL string
}

type answer struct {
	res Result
	err error
}

// Race fetches the digest announcements of all urls in parallel and returns
// the first well-formed one. The remaining requests are cancelled. If no
// mirror answers within timeout an ErrRaceFailed error is returned.
func Race(ctx context.Context, f Fetcher, urls []string, timeout time.Duration) (Result, error) {
	if len(urls) == 0 {
		return Result{}, errors.Fatal(errors.ErrRaceFailed, "no mirrors to ask for a digest")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	answers := make(chan answer, len(urls))
	var wg errgroup.Group

	for _, u := range urls {
		u := u
		wg.Go(func() error {
			buf, err := f.Get(ctx, AnnouncementURL(u))
			if err == nil {
				var id mman.ID
				id, err = ParseAnnouncement(buf)
				if err == nil {
					answers <- answer{res: Result{Digest: id, URL: u}}
					return nil
				}
			}
			answers <- answer{err: errors.Wrapf(err, "announcement of %v", u)}
			return nil
		})
	}

	// losers notice the cancelled context and are reaped here
	defer func() {
		cancel()
		_ = wg.Wait()
	}()

	var failed int
	for {
		select {
		case a := <-answers:
			if a.err == nil {
				log.Debugf("digest %v announced first by %v", a.res.Digest.Str(), a.res.URL)
				return a.res, nil
			}

			log.Debugf("race: %v", a.err)
			failed++
			if failed == len(urls) {
				return Result{}, errors.Fatalf(errors.ErrRaceFailed, "no mirror announced a digest: %v", a.err)
			}

		case <-ctx.Done():
			return Result{}, errors.Fatalf(errors.ErrRaceFailed, "no mirror announced a digest within %v", timeout)
		}
	}
}
