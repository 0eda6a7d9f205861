package fhem

import (
	"context"
	"errors"
	"sync"
)

type ClientStub struct {
	mu        sync.RWMutex
	commands  []string
	failAfter int
	err       error
}

func NewClientStub() *ClientStub {
	return &ClientStub{failAfter: -1}
}

func (c *ClientStub) SendCommand(_ context.Context, command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil && c.failAfter >= 0 && len(c.commands) >= c.failAfter {
		return c.err
	}
	c.commands = append(c.commands, command)
	return nil
}

// Helper methods for test setup

func (c *ClientStub) Commands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]string, len(c.commands))
	copy(result, c.commands)
	return result
}

// SetError makes every command after the first n accepted ones fail with err.
func (c *ClientStub) SetError(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAfter = n
	c.err = err
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = nil
	c.failAfter = -1
	c.err = nil
}

var ErrClientTestError = errors.New("client test error")
