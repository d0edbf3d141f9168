package lineage

import (
	"context"
	"sync"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

var _ eventPublisher = &eventPublisherMock{}

type eventPublisherMock struct {
	PublishConversionFunc func(ctx context.Context, rec domain.ConversionRecord) error

	calls struct {
		PublishConversion []struct {
			Ctx context.Context
			Rec domain.ConversionRecord
		}
	}
	lockPublishConversion sync.RWMutex
}

func (mock *eventPublisherMock) PublishConversion(ctx context.Context, rec domain.ConversionRecord) error {
	if mock.PublishConversionFunc == nil {
		panic("eventPublisherMock.PublishConversionFunc: method is nil but eventPublisher.PublishConversion was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec domain.ConversionRecord
	}{Ctx: ctx, Rec: rec}
	mock.lockPublishConversion.Lock()
	mock.calls.PublishConversion = append(mock.calls.PublishConversion, callInfo)
	mock.lockPublishConversion.Unlock()
	return mock.PublishConversionFunc(ctx, rec)
}

func (mock *eventPublisherMock) PublishConversionCalls() []struct {
	Ctx context.Context
	Rec domain.ConversionRecord
} {
	mock.lockPublishConversion.RLock()
	calls := mock.calls.PublishConversion
	mock.lockPublishConversion.RUnlock()
	return calls
}
