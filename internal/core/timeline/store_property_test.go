package timeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Whatever order and however many duplicates the carrier sends, the stored
// timeline stays sorted and holds each id once.
func TestTimelineStaysSortedAndUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("appends keep the timeline sorted without duplicate ids", prop.ForAll(
		func(ids []int, offsets []int64, skewSeconds int64) bool {
			s := newStore(newFakeRepo(), WithClockSkew(time.Duration(skewSeconds)*time.Second))
			ctx := context.Background()

			for i := range ids {
				ev := event(fmt.Sprintf("e%d", ids[i]), "IN_TRANSIT", t0.Add(time.Duration(offsets[i%len(offsets)])*time.Second), "")
				_, _ = s.Append(ctx, "BD123456", ev)
			}

			tl, err := s.Load(ctx, "BD123456")
			if err != nil || !tl.Sorted() {
				return false
			}
			seen := map[string]bool{}
			for _, ev := range tl.Events {
				if seen[ev.ID] {
					return false
				}
				seen[ev.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 15)),
		gen.SliceOfN(8, gen.Int64Range(-30, 30)),
		gen.Int64Range(0, 20),
	))

	properties.Property("with a wide skew every distinct id is kept", prop.ForAll(
		func(ids []int) bool {
			s := newStore(newFakeRepo(), WithClockSkew(time.Hour))
			ctx := context.Background()
			distinct := map[int]bool{}
			for i, id := range ids {
				distinct[id] = true
				ev := event(fmt.Sprintf("e%d", id), "IN_TRANSIT", t0.Add(time.Duration((i*7)%13)*time.Second), "")
				_, _ = s.Append(ctx, "BD123456", ev)
			}
			tl, err := s.Load(ctx, "BD123456")
			return err == nil && tl.Sorted() && tl.Len() == len(distinct)
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}
