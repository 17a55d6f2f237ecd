package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/portfolio-contact-api/internal/dto"
	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
)

type adminContactRepoStub struct {
	filter   repository.ContactFilter
	messages []models.ContactMessage
	total    int64
	err      error
}

func (a *adminContactRepoStub) Create(context.Context, *models.ContactMessage) error { return nil }

func (a *adminContactRepoStub) List(_ context.Context, filter repository.ContactFilter) ([]models.ContactMessage, int64, error) {
	a.filter = filter
	if a.err != nil {
		return nil, 0, a.err
	}
	return a.messages, a.total, nil
}

func (a *adminContactRepoStub) GetByID(_ context.Context, id uint) (models.ContactMessage, error) {
	if a.err != nil {
		return models.ContactMessage{}, a.err
	}
	for _, message := range a.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return models.ContactMessage{}, gorm.ErrRecordNotFound
}

func TestAdminContactServiceListPaginates(t *testing.T) {
	repo := &adminContactRepoStub{
		messages: []models.ContactMessage{{ID: 3, Name: "Eve", Email: "eve@x.com", Message: "third message"}},
		total:    41,
	}
	svc := NewAdminContactService(repo, testLogger())

	result, err := svc.List(context.Background(), dto.AdminContactListRequest{Page: 0, PageSize: 500, Search: "eve"})
	require.NoError(t, err)
	require.Equal(t, 1, repo.filter.Page)
	require.Equal(t, 100, repo.filter.PageSize)
	require.Equal(t, "eve", repo.filter.Search)
	require.Len(t, result.Items, 1)
	require.Equal(t, "eve@x.com", result.Items[0].Email)
	require.Equal(t, int64(41), result.Pagination.TotalItems)
	require.Equal(t, 1, result.Pagination.TotalPages)

	result, err = svc.List(context.Background(), dto.AdminContactListRequest{PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 3, result.Pagination.TotalPages)
}

func TestAdminContactServiceGetNotFound(t *testing.T) {
	svc := NewAdminContactService(&adminContactRepoStub{}, testLogger())

	_, err := svc.Get(context.Background(), 7)
	require.ErrorIs(t, err, ErrAdminContactNotFound)
}

func TestAdminContactServiceLogsRepositoryFailures(t *testing.T) {
	var buf bytes.Buffer
	repo := &adminContactRepoStub{err: errors.New("connection reset")}
	svc := NewAdminContactService(repo, zerolog.New(&buf))

	_, err := svc.List(context.Background(), dto.AdminContactListRequest{Search: "ada"})
	require.ErrorContains(t, err, "connection reset")
	require.Contains(t, buf.String(), "failed to list contact messages")
	require.Contains(t, buf.String(), `"component":"admin_contact_service"`)

	buf.Reset()
	_, err = svc.Get(context.Background(), 9)
	require.ErrorContains(t, err, "connection reset")
	require.NotErrorIs(t, err, ErrAdminContactNotFound)
	require.Contains(t, buf.String(), "failed to load contact message")
	require.Contains(t, buf.String(), `"contact_id":9`)
}
