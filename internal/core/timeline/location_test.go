package timeline

import (
	"testing"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

func TestCommaLocator(t *testing.T) {
	l := CommaLocator{DefaultCountry: "Congo"}

	tests := []struct {
		in   string
		want domain.LocationInfo
	}{
		{"Brazzaville, Congo", domain.LocationInfo{Name: "Brazzaville, Congo", City: "Brazzaville", Country: "Congo"}},
		{" Paris,France ", domain.LocationInfo{Name: "Paris,France", City: "Paris", Country: "France"}},
		{"Pointe-Noire", domain.LocationInfo{Name: "Pointe-Noire", City: "Pointe-Noire", Country: "Congo"}},
		{"Hub, ", domain.LocationInfo{Name: "Hub,", City: "Hub", Country: "Congo"}},
		{"Leipzig, DE, Europe", domain.LocationInfo{Name: "Leipzig, DE, Europe", City: "Leipzig", Country: "DE, Europe"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := l.Locate(tt.in); got != tt.want {
				t.Errorf("Locate(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShardedLocks_SameKeySameShard(t *testing.T) {
	l := newShardedLocks(0)
	if len(l.shards) != defaultLockShards {
		t.Fatalf("shards = %d, want %d", len(l.shards), defaultLockShards)
	}

	unlock := l.lock("BD123456")
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		l.lock("BD123456")()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same key must wait")
	default:
	}
	unlock()
	<-acquired
}
