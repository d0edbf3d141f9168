package lineage

import (
	"context"
	"sync"

	"github.com/heartmarshall/crm-lineage/internal/domain"
)

var _ entityRepo = &entityRepoMock{}

type entityRepoMock struct {
	FindByIDFunc func(ctx context.Context, id int64) (*domain.Entity, error)

	calls struct {
		FindByID []struct {
			Ctx context.Context
			ID  int64
		}
	}
	lockFindByID sync.RWMutex
}

func (mock *entityRepoMock) FindByID(ctx context.Context, id int64) (*domain.Entity, error) {
	if mock.FindByIDFunc == nil {
		panic("entityRepoMock.FindByIDFunc: method is nil but entityRepo.FindByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{Ctx: ctx, ID: id}
	mock.lockFindByID.Lock()
	mock.calls.FindByID = append(mock.calls.FindByID, callInfo)
	mock.lockFindByID.Unlock()
	return mock.FindByIDFunc(ctx, id)
}

func (mock *entityRepoMock) FindByIDCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockFindByID.RLock()
	calls := mock.calls.FindByID
	mock.lockFindByID.RUnlock()
	return calls
}
