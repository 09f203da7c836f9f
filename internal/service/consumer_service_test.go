package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/model"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/repository/specification"
	"sigma-lms-be/internal/repository/unitofwork"
	"sigma-lms-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_StoresImportJob(t *testing.T) {
	db, err := database.Open(database.DriverSqlite, ":memory:", database.Options{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ImportJob{}))
	uowFactory := unitofwork.NewRepositoryFactory(db)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, "IMPORT_COMPLETED", uowFactory, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("IMPORT_COMPLETED", pubSub)
	userId := uuid.New()

	// malformed payloads are acknowledged and dropped
	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))

	payload, err := json.Marshal(dto.ImportCompletedMessage{
		UserId:      userId,
		CourseTitle: "Lecture",
		FileCount:   3,
		LessonCount: 2,
		Analysis:    []dto.FileAnalysis{{FileName: "Lecture 1.docx", Title: "Lecture 1", WordCount: 10, ContentType: "summary"}},
		Failures:    []dto.FileFailure{{FileName: "x.pdf", Reason: dto.FailureUnsupportedFormat, Error: "pdf"}},
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	repo := uowFactory.NewUnitOfWork(ctx).ImportJobRepository()
	var jobs []*entity.ImportJob
	require.Eventually(t, func() bool {
		jobs, err = repo.FindAll(ctx, specification.ImportJobOwnedByUser{UserID: userId})
		return err == nil && len(jobs) == 1
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, "Lecture", jobs[0].CourseTitle)
	assert.Equal(t, entity.ImportJobPartial, jobs[0].Status)
	assert.Equal(t, 2, jobs[0].LessonCount)
	assert.Equal(t, "x.pdf", jobs[0].Failures[0].FileName)
}

func TestImportJobFromMessage_Status(t *testing.T) {
	tests := []struct {
		name string
		msg  dto.ImportCompletedMessage
		want entity.ImportJobStatus
	}{
		{name: "all files imported", msg: dto.ImportCompletedMessage{LessonCount: 2}, want: entity.ImportJobSucceeded},
		{name: "some failures", msg: dto.ImportCompletedMessage{LessonCount: 1, Failures: []dto.FileFailure{{FileName: "a"}}}, want: entity.ImportJobPartial},
		{name: "nothing imported", msg: dto.ImportCompletedMessage{Failures: []dto.FileFailure{{FileName: "a"}}}, want: entity.ImportJobFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importJobFromMessage(tt.msg).Status)
		})
	}
}
