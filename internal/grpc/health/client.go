package health

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client опрашивает службу health удалённого сервера.
type Client struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewClient создаёт клиент. Соединение устанавливается лениво при первом вызове.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	const op = "health.NewClient"
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Client{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Check возвращает статус сервиса service ("" - сервер целиком).
func (c *Client) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	const op = "health.Check"
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("%s: %w", op, err)
	}
	return resp.GetStatus(), nil
}

// Close закрывает соединение.
func (c *Client) Close() error {
	return c.conn.Close()
}
