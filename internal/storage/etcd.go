package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type etcdStorage struct {
	client *clientv3.Client
	key    string
}

var _ FileLike = &etcdStorage{}

type EtcdConfig struct {
	Endpoints []string
	Username  string
	Password  string
}

const etcdDialTimeout = 5 * time.Second

func NewEtcdBackend(ctx context.Context, cfg EtcdConfig, key string) (*etcdStorage, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("at least one etcd endpoint is required")
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: etcdDialTimeout,
		Context:     ctx,
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create etcd client")
	}

	statusCtx, cancel := context.WithTimeout(ctx, etcdDialTimeout)
	defer cancel()

	_, err = client.Status(statusCtx, cfg.Endpoints[0])
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "fail to reach etcd at %s", cfg.Endpoints[0])
	}

	return &etcdStorage{client, key}, nil
}

func (es *etcdStorage) Load(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Reading variables from etcd", "key", es.key)

	res, err := es.client.Get(ctx, es.key)
	if err != nil {
		return errors.Wrapf(err, "fail to get %s from etcd", es.key)
	}

	if len(res.Kvs) == 0 {
		return nil
	}

	err = json.Unmarshal(res.Kvs[0].Value, v)
	return errors.Wrapf(err, "fail to decode variables from etcd key %s", es.key)
}

func (es *etcdStorage) Save(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Writting variables to etcd", "key", es.key)

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "fail to marshal variables to json")
	}

	_, err = es.client.Put(ctx, es.key, string(data))
	return errors.Wrapf(err, "fail to put %s in etcd", es.key)
}

func (es *etcdStorage) Close() error {
	return es.client.Close()
}
