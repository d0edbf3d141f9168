package lineage

import (
	"context"
	"sync"
)

var _ userDirectory = &userDirectoryMock{}

type userDirectoryMock struct {
	DisplayNamesFunc func(ctx context.Context, ids []int64) (map[int64]string, error)

	calls struct {
		DisplayNames []struct {
			Ctx context.Context
			Ids []int64
		}
	}
	lockDisplayNames sync.RWMutex
}

func (mock *userDirectoryMock) DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if mock.DisplayNamesFunc == nil {
		panic("userDirectoryMock.DisplayNamesFunc: method is nil but userDirectory.DisplayNames was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []int64
	}{Ctx: ctx, Ids: ids}
	mock.lockDisplayNames.Lock()
	mock.calls.DisplayNames = append(mock.calls.DisplayNames, callInfo)
	mock.lockDisplayNames.Unlock()
	return mock.DisplayNamesFunc(ctx, ids)
}

func (mock *userDirectoryMock) DisplayNamesCalls() []struct {
	Ctx context.Context
	Ids []int64
} {
	mock.lockDisplayNames.RLock()
	calls := mock.calls.DisplayNames
	mock.lockDisplayNames.RUnlock()
	return calls
}
