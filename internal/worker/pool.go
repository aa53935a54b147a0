package worker

import "sync"

type Pool struct {
	numWorkers int
	jobs       chan Window
	results    chan Outcome
	wg         *sync.WaitGroup
}

func NewPool(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Window, numWorkers*2),
		results:    make(chan Outcome, numWorkers*2),
		wg:         &sync.WaitGroup{},
	}
}

func (p *Pool) Start(proc Processor) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go run(p.jobs, p.results, p.wg.Done, proc)
	}
}

func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
