package service

import (
	"context"
	"encoding/json"

	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records every finished import in the import_jobs table.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ImportCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("IMPORT_AUDIT", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads would never succeed on redelivery.
		msg.Ack()
		return
	}

	job := importJobFromMessage(payload)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	err := uow.Transaction(ctx, func(tx unitofwork.UnitOfWork) error {
		return tx.ImportJobRepository().Create(ctx, job)
	})
	if err != nil {
		cs.logger.Error("IMPORT_AUDIT", "Failed to store import job", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("IMPORT_AUDIT", "Import job stored", map[string]interface{}{
		"job_id":  job.Id.String(),
		"user_id": job.UserId.String(),
		"status":  string(job.Status),
	})
	msg.Ack()
}

func importJobFromMessage(m dto.ImportCompletedMessage) *entity.ImportJob {
	status := entity.ImportJobSucceeded
	switch {
	case m.LessonCount == 0:
		status = entity.ImportJobFailed
	case len(m.Failures) > 0:
		status = entity.ImportJobPartial
	}

	job := &entity.ImportJob{
		UserId:        m.UserId,
		CourseTitle:   m.CourseTitle,
		Status:        status,
		FileCount:     m.FileCount,
		LessonCount:   m.LessonCount,
		SectionsCount: m.SectionsCount,
		CreatedAt:     m.CompletedAt,
	}
	for _, a := range m.Analysis {
		job.Analysis = append(job.Analysis, entity.ImportFileAnalysis(a))
	}
	for _, f := range m.Failures {
		job.Failures = append(job.Failures, entity.ImportFileFailure(f))
	}
	return job
}
