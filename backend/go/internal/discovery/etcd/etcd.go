package etcd

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/services/"

// Registrar registers this service instance in etcd under a leased key so that
// the dashboard and other emulator components can find the API.
type Registrar struct {
	cli     *clientv3.Client
	leaseID clientv3.LeaseID
	key     string
}

// NewRegistrar creates a new etcd client.
func NewRegistrar(endpoints []string) (*Registrar, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("etcd client: %w", err)
	}
	return &Registrar{cli: cli}, nil
}

// ServiceKey returns the key an instance of serviceName at addr is stored under.
func ServiceKey(serviceName, addr string) string {
	return keyPrefix + serviceName + "/" + addr
}

// Register puts the service address under a lease of ttl seconds and keeps the
// lease alive until ctx is cancelled or Deregister is called.
func (r *Registrar) Register(ctx context.Context, serviceName, addr string, ttl int64) error {
	leaseResp, err := r.cli.Grant(ctx, ttl)
	if err != nil {
		return fmt.Errorf("etcd grant: %w", err)
	}

	key := ServiceKey(serviceName, addr)
	if _, err := r.cli.Put(ctx, key, addr, clientv3.WithLease(leaseResp.ID)); err != nil {
		return fmt.Errorf("etcd put %s: %w", key, err)
	}

	keepAliveCh, err := r.cli.KeepAlive(ctx, leaseResp.ID)
	if err != nil {
		return fmt.Errorf("etcd keepalive: %w", err)
	}
	r.leaseID = leaseResp.ID
	r.key = key

	// Drain keepalive responses; the channel closes when ctx ends or the lease is lost.
	go func() {
		for range keepAliveCh {
		}
	}()

	return nil
}

// Deregister revokes the lease, which removes the key immediately.
func (r *Registrar) Deregister(ctx context.Context) error {
	if r.leaseID == 0 {
		return nil
	}
	if _, err := r.cli.Revoke(ctx, r.leaseID); err != nil {
		return fmt.Errorf("etcd revoke: %w", err)
	}
	r.leaseID = 0
	return nil
}

// Discover lists the registered addresses of serviceName.
func (r *Registrar) Discover(ctx context.Context, serviceName string) ([]string, error) {
	resp, err := r.cli.Get(ctx, keyPrefix+serviceName+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		addrs = append(addrs, string(kv.Value))
	}
	return addrs, nil
}

// Close closes the etcd client.
func (r *Registrar) Close() error {
	return r.cli.Close()
}
