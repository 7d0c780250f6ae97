package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dexflow/internal/model"
	"dexflow/pkg/logger"

	"github.com/bwmarrin/snowflake"
)

// 执行控制器：包裹单次下单的重试状态机
// Pending -> Submitting -> {Filled, Retrying, Exhausted}，Retrying回到Submitting
// 各交易所适配器共用这一份实现，不再各写各的重试循环

// ErrOrderRejected transport用它包装交易所的校验类拒绝（参数非法等），
// 这类错误不重试；业务类失败（如保证金不足）与网络错误同样进入重试
var ErrOrderRejected = errors.New("order rejected")

type State string

const (
	StatePending    State = "pending"
	StateSubmitting State = "submitting"
	StateRetrying   State = "retrying"
	StateFilled     State = "filled"
	StateRejected   State = "rejected"
	StateExhausted  State = "exhausted"
)

// SubmitFunc 由适配器提供的交易所提交函数
// clientOrderId 在一次Execute的所有重试中保持不变，
// 支持幂等id的交易所可以用它去重
type SubmitFunc func(ctx context.Context, intent *model.OrderIntent, clientOrderId string) (*model.OrderResponse, error)

type Controller struct {
	maxRetries int
	retryDelay time.Duration
	node       *snowflake.Node
}

func NewController(maxRetries int, retryDelay time.Duration) *Controller {
	node, err := snowflake.NewNode(1)
	if err != nil {
		// node id固定为1，只有时钟倒退才可能失败
		panic(err)
	}
	return &Controller{
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		node:       node,
	}
}

// Execute 提交订单，失败时按固定间隔重试，总尝试次数 = maxRetries+1
// 重试耗尽只在最后记一条日志，避免刷屏
func (c *Controller) Execute(ctx context.Context, intent *model.OrderIntent, submit SubmitFunc) *model.ExecutionOutcome {
	// 每次Execute生成一个新的客户端订单id，重试之间复用
	clientOrderId := c.node.Generate().String()

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := submit(ctx, intent, clientOrderId)

		switch {
		case err != nil && errors.Is(err, ErrOrderRejected):
			logger.Warnf("[Execution] %s %s rejected: %v", intent.Market, intent.Side, err)
			return model.Rejected(err.Error())

		case err != nil:
			lastErr = err

		case !resp.Ok():
			// 交易所返回业务错误，与网络异常一视同仁进入重试
			lastErr = fmt.Errorf("exchange error: %s", resp.Message)

		default:
			size := resp.FilledSize
			if size == 0 {
				size = intent.Quantity
			}
			price := resp.FilledPrice
			if price == 0 {
				price = intent.LimitPrice
			}
			return model.Filled(resp.OrderId, size, price, intent.Side)
		}

		if attempt < c.maxRetries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				logger.Errorf("[Execution] %s %s canceled after %d attempts: %v",
					intent.Market, intent.Side, attempt+1, ctx.Err())
				return model.Exhausted(ctx.Err())
			}
		}
	}

	logger.Errorf("[Execution] %s %s exhausted %d attempts, last error: %v",
		intent.Market, intent.Side, c.maxRetries+1, lastErr)
	return model.Exhausted(lastErr)
}
