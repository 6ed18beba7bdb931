package service

import (
	"context"

	"hooksy-assistant/internal/quota"
	"hooksy-assistant/internal/storage"
)

// ChatService defines the interface for chat operations
type ChatService interface {
	ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error)
	Transcript(sessionID string) ([]storage.Turn, error)
	ResetTranscript(sessionID string) ([]storage.Turn, error)
	QuotaStatus(ctx context.Context) quota.Usage
}

// QuotaGate is the part of the quota store the router depends on
type QuotaGate interface {
	CheckAndConsume(ctx context.Context) quota.Decision
	Commit(ctx context.Context)
	Release()
	Status(ctx context.Context) quota.Usage
}
