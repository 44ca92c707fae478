package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/rushteam/swiperec/core"
)

// GrpcClient 基于官方 SDK 的 Feast 在线特征客户端。
type GrpcClient struct {
	client *feastsdk.GrpcClient
	cfg    Config
}

// NewGrpcClient 按配置连接 Feast Serving。
func NewGrpcClient(cfg Config) (*GrpcClient, error) {
	cfg.ApplyDefaults()
	if cfg.Host == "" {
		return nil, core.InvalidInputf(core.ModuleFeature, "feast.host is required")
	}

	var (
		client *feastsdk.GrpcClient
		err    error
	)
	if cfg.Token != "" {
		client, err = feastsdk.NewSecureGrpcClient(cfg.Host, cfg.Port, feastsdk.SecurityConfig{
			Credential: feastsdk.NewStaticCredential(cfg.Token),
		})
	} else {
		client, err = feastsdk.NewGrpcClient(cfg.Host, cfg.Port)
	}
	if err != nil {
		return nil, core.Unavailable(core.ModuleFeature, "connect "+cfg.Endpoint(), err)
	}
	return &GrpcClient{client: client, cfg: cfg}, nil
}

// FetchEmbeddings 读取 cfg.Feature 对应的向量特征，支持 double_list 与 float_list。
func (c *GrpcClient) FetchEmbeddings(ctx context.Context, productIDs []string) (map[string]core.Vector, error) {
	if len(productIDs) == 0 {
		return map[string]core.Vector{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	entities := make([]feastsdk.Row, len(productIDs))
	for i, id := range productIDs {
		entities[i] = feastsdk.Row{c.cfg.EntityKey: feastsdk.StrVal(id)}
	}
	resp, err := c.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{c.cfg.Feature},
		Entities: entities,
		Project:  c.cfg.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(productIDs) {
		return nil, fmt.Errorf("feast response row count mismatch: expected %d, got %d", len(productIDs), len(rows))
	}

	out := make(map[string]core.Vector, len(rows))
	for i, row := range rows {
		val, ok := row[c.cfg.Feature]
		if !ok || val == nil {
			continue
		}
		var vec core.Vector
		if dl := val.GetDoubleListVal(); dl != nil {
			vec = append(core.Vector(nil), dl.GetVal()...)
		} else if fl := val.GetFloatListVal(); fl != nil {
			vec = make(core.Vector, len(fl.GetVal()))
			for j, f := range fl.GetVal() {
				vec[j] = float64(f)
			}
		}
		if len(vec) > 0 {
			out[productIDs[i]] = vec
		}
	}
	return out, nil
}

// Close 释放客户端。SDK 的连接由 gRPC 库自行管理。
func (c *GrpcClient) Close() error {
	c.client = nil
	return nil
}

var _ Fetcher = (*GrpcClient)(nil)
