//go:build ignore

// task writes an execution trace of a few workers that log a frame value
// after every job, e.g. for "tracegraph plot -scan 'val=%f'".
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
	"time"
)

func main() {
	if err := trace.Start(os.Stdout); err != nil {
		panic(err)
	}
	defer trace.Stop()

	ctx := context.Background()
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, jobs)
		}()
	}
	for i := 0; i < 100; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func worker(ctx context.Context, jobs <-chan int) {
	for job := range jobs {
		ctx, task := trace.NewTask(ctx, "job")
		start := time.Now()
		spin(time.Duration(job%7) * 100 * time.Microsecond)
		trace.Log(ctx, "frame", fmt.Sprintf("frame val=%f", float64(time.Since(start).Microseconds())/1000))
		task.End()
	}
}

func spin(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; {
	}
}
