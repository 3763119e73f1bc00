package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-studio/internal/llm"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResult, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return llm.GenerateResult{}, args.Error(1)
	}

	return args.Get(0).(llm.GenerateResult), args.Error(1)
}

var _ llm.Generator = (*MockGenerator)(nil)
