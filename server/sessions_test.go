package server

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/orderdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSessionWaitsForInitialLoad(t *testing.T) {
	f := newServerFixture()
	f.orders.listDelay = 50 * time.Millisecond
	f.orders.orders["ord-seed"] = models.Order{ID: "ord-seed", UserID: "u1"}

	var wg sync.WaitGroup
	counts := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := f.srv.sessions.Session(context.Background(), "u1")
			counts[i] = len(sess.Orders.All())
		}(i)
	}
	wg.Wait()

	for _, n := range counts {
		assert.Equal(t, 1, n, "no request sees the cache before the first load finishes")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.orders.listCalls), "the initial load runs once")
}
