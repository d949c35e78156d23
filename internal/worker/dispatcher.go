package worker

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/queue"
)

//go:generate mockgen -source=dispatcher.go -destination=../mocks/worker/mock.go -package=mocks
type dispatchQueue interface {
	Consume(ctx context.Context, out chan<- queue.DispatchMessage, strategy retry.Strategy) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, msg queue.DispatchMessage, strategy retry.Strategy)
}

type notificationService interface {
	Due(ctx context.Context, id string) (bool, error)
}

// Dispatcher feeds dispatch messages to a pool of workers.
type Dispatcher struct {
	queue   dispatchQueue
	handler messageHandler
	service notificationService
}

func NewDispatcher(q dispatchQueue, h messageHandler, s notificationService) *Dispatcher {
	return &Dispatcher{
		queue:   q,
		handler: h,
		service: s,
	}
}

// Run consumes the queue with workerCount workers until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	msgChan := make(chan queue.DispatchMessage, workerCount*10)

	go func() {
		if err := d.queue.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume messages")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("worker-%d shutting down", id)
					return
				case msg, ok := <-msgChan:
					if !ok {
						zlog.Logger.Printf("worker-%d channel closed, shutting down", id)
						return
					}

					due, err := d.service.Due(ctx, msg.NotificationID)
					if err != nil {
						zlog.Logger.Printf("failed to check notification %s: %v", msg.NotificationID, err)
						continue
					}

					if !due {
						zlog.Logger.Printf("notification %s is no longer pending, skipping", msg.NotificationID)
						continue
					}

					d.handler.HandleMessage(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("dispatcher stopped")
}
