package execution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dexflow/internal/model"
)

func testIntent() *model.OrderIntent {
	return &model.OrderIntent{
		Market:     "BTC-USD",
		Side:       model.Buy,
		Quantity:   0.1,
		LimitPrice: 64320,
	}
}

// 每次提交都失败，总尝试次数应该是 maxRetries+1
func TestExecuteExhaustsRetries(t *testing.T) {
	ctrl := NewController(3, time.Millisecond)

	calls := 0
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		calls++
		return nil, errors.New("connection reset")
	}

	outcome := ctrl.Execute(context.Background(), testIntent(), submit)
	if outcome.State != model.OutcomeExhausted {
		t.Fatalf("state = %s, want exhausted", outcome.State)
	}
	if calls != 4 {
		t.Fatalf("attempts = %d, want 4", calls)
	}
	if outcome.LastError == nil {
		t.Fatal("exhausted outcome lost the last error")
	}
}

func TestExecuteFirstAttemptFilled(t *testing.T) {
	ctrl := NewController(3, time.Millisecond)

	calls := 0
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		calls++
		return &model.OrderResponse{
			OrderId:     "ord-1",
			Status:      model.OrderStatusFilled,
			FilledSize:  0.1,
			FilledPrice: 64300,
		}, nil
	}

	outcome := ctrl.Execute(context.Background(), testIntent(), submit)
	if outcome.State != model.OutcomeFilled {
		t.Fatalf("state = %s, want filled", outcome.State)
	}
	if calls != 1 {
		t.Fatalf("attempts = %d, want 1", calls)
	}
	if outcome.OrderId != "ord-1" || outcome.FilledPrice != 64300 {
		t.Fatalf("outcome = %+v", outcome)
	}
}

// 前两次失败第三次成功，剩余的重试额度不再使用
func TestExecuteRecoversBeforeExhaustion(t *testing.T) {
	ctrl := NewController(3, time.Millisecond)

	calls := 0
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		calls++
		if calls <= 2 {
			return nil, errors.New("timeout")
		}
		return &model.OrderResponse{OrderId: "ord-2", Status: model.OrderStatusFilled}, nil
	}

	outcome := ctrl.Execute(context.Background(), testIntent(), submit)
	if outcome.State != model.OutcomeFilled {
		t.Fatalf("state = %s, want filled", outcome.State)
	}
	if calls != 3 {
		t.Fatalf("attempts = %d, want 3", calls)
	}
	// 成交字段为空时回落到intent里的值
	if outcome.FilledSize != 0.1 || outcome.FilledPrice != 64320 {
		t.Fatalf("fallback fill values wrong: %+v", outcome)
	}
}

// 同一次Execute的所有重试必须携带同一个客户端订单id
func TestClientOrderIdStableAcrossRetries(t *testing.T) {
	ctrl := NewController(2, time.Millisecond)

	ids := make(map[string]struct{})
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		ids[clientOrderId] = struct{}{}
		return nil, errors.New("timeout")
	}

	ctrl.Execute(context.Background(), testIntent(), submit)
	if len(ids) != 1 {
		t.Fatalf("client order ids seen = %d, want 1", len(ids))
	}

	// 下一次Execute换新id
	ctrl.Execute(context.Background(), testIntent(), submit)
	if len(ids) != 2 {
		t.Fatalf("client order ids after second execute = %d, want 2", len(ids))
	}
}

// 交易所返回的业务错误与网络错误同样消耗重试额度
func TestAppLevelErrorRetried(t *testing.T) {
	ctrl := NewController(1, time.Millisecond)

	calls := 0
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		calls++
		return &model.OrderResponse{Status: model.OrderStatusError, Message: "insufficient margin"}, nil
	}

	outcome := ctrl.Execute(context.Background(), testIntent(), submit)
	if outcome.State != model.OutcomeExhausted {
		t.Fatalf("state = %s, want exhausted", outcome.State)
	}
	if calls != 2 {
		t.Fatalf("attempts = %d, want 2", calls)
	}
}

// 校验类拒绝立即终止，不再重试
func TestRejectionShortCircuits(t *testing.T) {
	ctrl := NewController(3, time.Millisecond)

	calls := 0
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		calls++
		return nil, fmt.Errorf("%w: size below minimum", ErrOrderRejected)
	}

	outcome := ctrl.Execute(context.Background(), testIntent(), submit)
	if outcome.State != model.OutcomeRejected {
		t.Fatalf("state = %s, want rejected", outcome.State)
	}
	if calls != 1 {
		t.Fatalf("attempts = %d, want 1", calls)
	}
}

func TestContextCancelStopsRetrying(t *testing.T) {
	ctrl := NewController(5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	submit := func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error) {
		cancel()
		return nil, errors.New("timeout")
	}

	outcome := ctrl.Execute(ctx, testIntent(), submit)
	if outcome.State != model.OutcomeExhausted {
		t.Fatalf("state = %s, want exhausted", outcome.State)
	}
	if !errors.Is(outcome.LastError, context.Canceled) {
		t.Fatalf("last error = %v, want context.Canceled", outcome.LastError)
	}
}
