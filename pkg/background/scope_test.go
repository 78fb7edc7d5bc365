package background

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func producer(id string, data chan<- int) func(ctx context.Context) {
	return func(ctx context.Context) {
		for i := 0; ; i++ {
			select {
			case data <- i:
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func consumer(id string, data <-chan int) func(ctx context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case _, ok := <-data:
				if !ok {
					fmt.Println(id, "exited on closed data channel")
					return
				}
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func ExampleScope() {
	data1, data2 := make(chan int), make(chan int)

	write1 := NewScope(context.Background())
	read1 := NewScope(context.Background())
	write2 := NewScope(context.Background())

	write1.Go(producer("DATA-1 *PRODUCER*", data1))
	read1.Go(consumer("DATA-1 *CONSUMER*", data1))
	write2.Go(producer("DATA-2 *PRODUCER*", data2)) // blocked due to no consumer for data2

	time.Sleep(50 * time.Millisecond)

	// Cancel scopes in desired order:
	write2.Cancel()
	write2.Wait(0)
	write1.Cancel()
	write1.Wait(0)
	read1.Cancel()
	read1.Wait(0)

	// Output:
	// DATA-2 *PRODUCER* done
	// DATA-1 *PRODUCER* done
	// DATA-1 *CONSUMER* done
}

func ExampleScope_severalMembers() {
	data := make(chan int)
	scope := NewScope(context.Background())

	scope.Go(producer("*PRODUCER-1*", data))
	scope.Go(producer("*PRODUCER-2*", data))
	scope.Go(producer("*PRODUCER-3*", data))

	time.Sleep(50 * time.Millisecond)

	scope.Cancel()
	scope.Wait(0)

	// Unordered output:
	// *PRODUCER-1* done
	// *PRODUCER-2* done
	// *PRODUCER-3* done
}

func TestScope_GoAfterCancel(test *testing.T) {
	req := require.New(test)
	scope := NewScope(context.Background())

	// Given a canceled scope
	scope.Cancel()

	// When a new member is started
	started := scope.Go(func(ctx context.Context) {
		req.Fail("member must not run in canceled scope")
	})

	// Then it is rejected and the scope is immediately drained
	req.False(started)
	req.True(scope.Wait(10 * time.Millisecond))
}

func TestScope_ParentCancel(test *testing.T) {
	req := require.New(test)
	parent, cancel := context.WithCancel(context.Background())
	scope := NewScope(parent)
	stopped := make(chan struct{})
	scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})

	// When parent context is canceled
	cancel()

	// Then scope members observe it
	select {
	case <-stopped:
	case <-time.After(time.Second):
		req.Fail("member did not observe parent cancellation")
	}
	req.True(scope.Wait(time.Second))
}

func TestScope_WaitTimeout(test *testing.T) {
	req := require.New(test)
	scope := NewScope(context.Background())
	release := make(chan struct{})
	scope.Go(func(ctx context.Context) {
		<-release
	})

	// Given a member ignoring its context
	scope.Cancel()

	// Then Wait gives up after timeout
	req.False(scope.Wait(20 * time.Millisecond))

	close(release)
	req.True(scope.Wait(time.Second))
}
