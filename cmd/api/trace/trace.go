// Package trace carries the request id and outbound span counter of one API request.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"

	"techsphere/cmd/internal/logger"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 하나의 요청에 대한 트레이싱 정보다.
// spanSeq 는 같은 요청 안에서 outbound 호출(LLM, 외부 API)마다 1씩 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID returns a random 128-bit hex id.
func GenerateID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID, spanSeq: initialSpan})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 span 값을 증가시키지 않고 조회한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID advances the span counter and returns (requestID, spanID).
// Outside of a traced request it invents a fresh request id with span 1.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// LogFields returns request_id/span_id fields for structured logs, merged into extra.
func LogFields(ctx context.Context, extra logger.Fields) logger.Fields {
	fields := logger.Fields{}
	for k, v := range extra {
		fields[k] = v
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
		fields["span_id"] = CurrentSpanID(ctx)
	}
	return fields
}
