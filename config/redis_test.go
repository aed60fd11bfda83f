package config

import (
	"testing"
	"time"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantAddr string
		wantPool int
		wantErr  bool
	}{
		{
			name:    "missing",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:     "plain addr",
			env:      map[string]string{"REDIS_ADDR": "cache:6379", "REDIS_POOL_SIZE": "32"},
			wantAddr: "cache:6379",
			wantPool: 32,
		},
		{
			name:     "url",
			env:      map[string]string{"REDIS_URL": "redis://:secret@cache:6380/2"},
			wantAddr: "cache:6380",
		},
		{
			name:    "bad pool size",
			env:     map[string]string{"REDIS_ADDR": "cache:6379", "REDIS_POOL_SIZE": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"REDIS_ADDR", "REDIS_URL", "REDIS_URI", "REDIS_POOL_SIZE", "REDIS_DIAL_TIMEOUT", "REDIS_PASSWORD"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			opt, err := RedisOptions()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opt.Addr != tt.wantAddr {
				t.Fatalf("expected addr %q, got %q", tt.wantAddr, opt.Addr)
			}
			if tt.wantPool > 0 && opt.PoolSize != tt.wantPool {
				t.Fatalf("expected pool %d, got %d", tt.wantPool, opt.PoolSize)
			}
			if opt.DialTimeout != 5*time.Second {
				t.Fatalf("expected default dial timeout, got %s", opt.DialTimeout)
			}
		})
	}
}
