package sender

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/port/outbound"
	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/DioGolang/GoTraffic/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder("77", []entity.Item{{ProductID: 2, Quantity: 3, Price: 4.5}})
	require.NoError(t, err)
	return o
}

func TestHTTP_Send_Success(t *testing.T) {
	//Arrange
	var gotBody map[string]any
	var gotContentType, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get(headerRequestID)
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"accepted":true}`))
	}))
	defer srv.Close()
	s := NewHTTP(srv.URL+"/", time.Second)

	//Act
	outcome, err := s.Send(context.Background(), testOrder(t))

	//Assert
	require.NoError(t, err)
	assert.True(t, outcome.Success())
	assert.Equal(t, "201", outcome.Status)
	assert.Equal(t, `{"accepted":true}`, outcome.Body)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "77", gotBody["customerId"])
}

func TestHTTP_Send_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	outcome, err := NewHTTP(srv.URL, time.Second).Send(context.Background(), testOrder(t))

	require.NoError(t, err)
	require.False(t, outcome.Success())
	assert.Equal(t, outbound.FailureServerError, outcome.Err.Kind)
	assert.Contains(t, outcome.Err.Detail, "500")
	assert.Contains(t, outcome.Err.Detail, "boom")
}

func TestHTTP_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	outcome, err := NewHTTP(srv.URL, 50*time.Millisecond).Send(context.Background(), testOrder(t))

	require.NoError(t, err)
	require.False(t, outcome.Success())
	assert.Equal(t, outbound.FailureTimeout, outcome.Err.Kind)
}

func TestHTTP_Send_ConnectionRefused(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	outcome, err := NewHTTP("http://"+addr+"/", time.Second).Send(context.Background(), testOrder(t))

	require.NoError(t, err)
	require.False(t, outcome.Success())
	assert.Equal(t, outbound.FailureConnectionRefused, outcome.Err.Kind)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"http", KindHTTP, false},
		{" GRPC ", KindGRPC, false},
		{"amqp", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTransport)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_StacksDecorators(t *testing.T) {
	s, err := New(Config{Kind: KindHTTP, URL: "http://localhost:1/", RetryMax: 2, Breaker: true}, logger.NewNop())
	require.NoError(t, err)

	b, ok := s.(*Breaking)
	require.True(t, ok)
	_, ok = b.next.(*Retrying)
	assert.True(t, ok)

	_, err = New(Config{Kind: "carrier-pigeon"}, logger.NewNop())
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
