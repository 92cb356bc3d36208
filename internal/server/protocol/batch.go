package protocol

import (
	"context"

	"github.com/iudanet/famsync/internal/validation"
	"github.com/iudanet/famsync/pkg/api"
)

// Batch обрабатывает элементы пакета независимо друг от друга.
// Каждый элемент занимает слот лимита. Пустой userId элемента наследуется от пакета,
// чужой userId - ошибка элемента. При continueOnError=false обработка прерывается на первой ошибке.
func (s *Service) Batch(ctx context.Context, req *api.BatchSyncRequest) (*api.BatchSyncResponse, error) {
	if err := validation.BatchRequest(req, s.maxBatch); err != nil {
		return nil, err
	}

	continueOnError := req.ShouldContinueOnError()
	resp := &api.BatchSyncResponse{
		Results: make([]api.BatchItemResult, 0, len(req.Profiles)),
	}

	for i := range req.Profiles {
		if ctx.Err() != nil {
			resp.Aborted = true
			break
		}

		item := req.Profiles[i]
		if item.UserID == "" {
			item.UserID = req.UserID
		}

		resp.TotalProcessed++
		result, err := s.batchItem(ctx, req.UserID, &item)
		if err != nil {
			resp.TotalFailed++
			resp.Results = append(resp.Results, api.BatchItemResult{Index: i, Error: err.Error()})
			if !continueOnError {
				resp.Aborted = true
				break
			}
			continue
		}
		resp.Results = append(resp.Results, api.BatchItemResult{Index: i, Result: result})
	}

	if s.metrics != nil {
		s.metrics.ObserveBatch(resp.TotalProcessed, resp.TotalFailed)
	}

	s.logger.Debug("Batch processed",
		"user_id", req.UserID,
		"items", len(req.Profiles),
		"processed", resp.TotalProcessed,
		"failed", resp.TotalFailed,
		"aborted", resp.Aborted,
	)

	return resp, nil
}

func (s *Service) batchItem(ctx context.Context, userID string, item *api.SyncRequest) (*api.SyncResponse, error) {
	if item.UserID != userID {
		return nil, validation.Errors{{
			Field:   "userId",
			Tag:     "eqfield",
			Message: "userId must match batch userId",
		}}
	}
	return s.Sync(ctx, item)
}
