package camunda

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plana-backend/internal/common/config"
	"plana-backend/internal/common/logger"
)

// unreachableGateway has nothing listening on it.
const unreachableGateway = "127.0.0.1:1"

type noopHandler struct{}

func (noopHandler) Handle(worker.JobClient, entities.Job) {}

func TestNewClient_UnreachableBroker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewClient(ctx, config.CamundaConfig{
		BrokerAddress:  unreachableGateway,
		Plaintext:      true,
		RequestTimeout: 200,
	})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), unreachableGateway)
}

func TestWorker_OpenAndStop(t *testing.T) {
	zb, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         unreachableGateway,
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer zb.Close()

	w := NewWorker(zb, WorkerOptions{
		TaskType:      "email.send",
		MaxJobsActive: 1,
		Timeout:       time.Second,
	}, noopHandler{}, logger.NewTestLogger(t))

	assert.Equal(t, "email.send", w.taskType)
	assert.NotPanics(t, w.Stop)
}
