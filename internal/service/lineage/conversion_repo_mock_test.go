package lineage

import (
	"context"
	"sync"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

var _ conversionRepo = &conversionRepoMock{}

type conversionRepoMock struct {
	CreateFunc       func(ctx context.Context, rec domain.ConversionRecord) (domain.ConversionRecord, error)
	ExistsFunc       func(ctx context.Context, f domain.ConversionFilter) (bool, error)
	LatestFunc       func(ctx context.Context, f domain.ConversionFilter) (domain.ConversionRecord, error)
	ListFunc         func(ctx context.Context, f domain.ConversionFilter, limit int) ([]domain.ConversionRecord, error)
	ListByEntityFunc func(ctx context.Context, ref domain.EntityRef, limit int) ([]domain.ConversionRecord, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Rec domain.ConversionRecord
		}
		Exists []struct {
			Ctx context.Context
			F   domain.ConversionFilter
		}
		Latest []struct {
			Ctx context.Context
			F   domain.ConversionFilter
		}
		List []struct {
			Ctx   context.Context
			F     domain.ConversionFilter
			Limit int
		}
		ListByEntity []struct {
			Ctx   context.Context
			Ref   domain.EntityRef
			Limit int
		}
	}
	lockCreate       sync.RWMutex
	lockExists       sync.RWMutex
	lockLatest       sync.RWMutex
	lockList         sync.RWMutex
	lockListByEntity sync.RWMutex
}

func (mock *conversionRepoMock) Create(ctx context.Context, rec domain.ConversionRecord) (domain.ConversionRecord, error) {
	if mock.CreateFunc == nil {
		panic("conversionRepoMock.CreateFunc: method is nil but conversionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec domain.ConversionRecord
	}{Ctx: ctx, Rec: rec}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, rec)
}

func (mock *conversionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Rec domain.ConversionRecord
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *conversionRepoMock) Exists(ctx context.Context, f domain.ConversionFilter) (bool, error) {
	if mock.ExistsFunc == nil {
		panic("conversionRepoMock.ExistsFunc: method is nil but conversionRepo.Exists was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.ConversionFilter
	}{Ctx: ctx, F: f}
	mock.lockExists.Lock()
	mock.calls.Exists = append(mock.calls.Exists, callInfo)
	mock.lockExists.Unlock()
	return mock.ExistsFunc(ctx, f)
}

func (mock *conversionRepoMock) ExistsCalls() []struct {
	Ctx context.Context
	F   domain.ConversionFilter
} {
	mock.lockExists.RLock()
	calls := mock.calls.Exists
	mock.lockExists.RUnlock()
	return calls
}

func (mock *conversionRepoMock) Latest(ctx context.Context, f domain.ConversionFilter) (domain.ConversionRecord, error) {
	if mock.LatestFunc == nil {
		panic("conversionRepoMock.LatestFunc: method is nil but conversionRepo.Latest was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.ConversionFilter
	}{Ctx: ctx, F: f}
	mock.lockLatest.Lock()
	mock.calls.Latest = append(mock.calls.Latest, callInfo)
	mock.lockLatest.Unlock()
	return mock.LatestFunc(ctx, f)
}

func (mock *conversionRepoMock) LatestCalls() []struct {
	Ctx context.Context
	F   domain.ConversionFilter
} {
	mock.lockLatest.RLock()
	calls := mock.calls.Latest
	mock.lockLatest.RUnlock()
	return calls
}

func (mock *conversionRepoMock) List(ctx context.Context, f domain.ConversionFilter, limit int) ([]domain.ConversionRecord, error) {
	if mock.ListFunc == nil {
		panic("conversionRepoMock.ListFunc: method is nil but conversionRepo.List was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		F     domain.ConversionFilter
		Limit int
	}{Ctx: ctx, F: f, Limit: limit}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f, limit)
}

func (mock *conversionRepoMock) ListCalls() []struct {
	Ctx   context.Context
	F     domain.ConversionFilter
	Limit int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *conversionRepoMock) ListByEntity(ctx context.Context, ref domain.EntityRef, limit int) ([]domain.ConversionRecord, error) {
	if mock.ListByEntityFunc == nil {
		panic("conversionRepoMock.ListByEntityFunc: method is nil but conversionRepo.ListByEntity was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Ref   domain.EntityRef
		Limit int
	}{Ctx: ctx, Ref: ref, Limit: limit}
	mock.lockListByEntity.Lock()
	mock.calls.ListByEntity = append(mock.calls.ListByEntity, callInfo)
	mock.lockListByEntity.Unlock()
	return mock.ListByEntityFunc(ctx, ref, limit)
}

func (mock *conversionRepoMock) ListByEntityCalls() []struct {
	Ctx   context.Context
	Ref   domain.EntityRef
	Limit int
} {
	mock.lockListByEntity.RLock()
	calls := mock.calls.ListByEntity
	mock.lockListByEntity.RUnlock()
	return calls
}
