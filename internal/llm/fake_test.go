package llm

import (
	"context"
	"sync"
)

// fakeProvider replays canned replies and records every prompt it receives.
type fakeProvider struct {
	name    string
	replies []string
	errs    []error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.prompts)
	f.prompts = append(f.prompts, req.Prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func statusErr(status int) error {
	return &ProviderError{Provider: "fake", StatusCode: status, Message: "request failed"}
}
