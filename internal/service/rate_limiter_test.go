package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{name: "no client", limit: 5},
		{name: "no limit", limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewRateLimiter(nil, tt.limit, time.Minute)
			for i := 0; i < 10; i++ {
				ok, err := limiter.Allow(context.Background(), "user")
				assert.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
}

func TestServiceErrors(t *testing.T) {
	assert.Equal(t, 400, ErrNoFiles.(*statusError).StatusCode())
	assert.Equal(t, 429, ErrRateLimited.(*statusError).StatusCode())
	assert.Equal(t, "too many import requests, try again later", ErrRateLimited.Error())
}
