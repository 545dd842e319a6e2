package artwork

import (
	"context"
	"errors"
	"math"
	"testing"

	domainArtwork "artmarket/internal/domain/artwork"
	"artmarket/internal/domain/artwork/mocks"
	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/infrastructure/notification"
	appErrors "artmarket/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingPublisher struct {
	events []notification.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event notification.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func newMockedService(t *testing.T) (*Service, *mocks.MockRepository, *recordingPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	publisher := &recordingPublisher{}
	return NewService(repo, publisher), repo, publisher
}

func intPtr(v int) *int { return &v }

func TestCreateArtwork(t *testing.T) {
	svc, repo, _ := newMockedService(t)
	artistID := uuid.New()

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domainArtwork.Artwork) error {
		assert.Equal(t, artistID, a.ArtistID)
		assert.Equal(t, "painting", a.Category)
		assert.Equal(t, 1, a.Stock)
		assert.Equal(t, domainArtwork.StatusPublished, a.Status)
		a.ID = uuid.New()
		return nil
	})

	resp, err := svc.CreateArtwork(context.Background(), artistID, &CreateArtworkRequest{
		Title:    "  Harbour at Dusk ",
		Category: "Painting",
		ImageURL: "https://cdn.example.com/harbour.jpg",
		Price:    125000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Harbour at Dusk", resp.Title)
	assert.True(t, resp.IsMine)
}

func TestCreateArtwork_Validation(t *testing.T) {
	svc, _, _ := newMockedService(t)

	_, err := svc.CreateArtwork(context.Background(), uuid.New(), &CreateArtworkRequest{
		Title:    "Untitled",
		Category: "sketch",
		ImageURL: "not a url",
		Price:    100,
	})
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "imageUrl must be a valid URL", appErr.Message)
}

func TestArtworkPrice_UpperBound(t *testing.T) {
	svc, _, _ := newMockedService(t)

	_, err := svc.CreateArtwork(context.Background(), uuid.New(), &CreateArtworkRequest{
		Title:    "Untitled",
		Category: "sketch",
		ImageURL: "https://cdn.example.com/a.jpg",
		Price:    math.MaxInt64/2 + 1,
	})
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "price must be less than or equal to 10000000000", appErr.Message)

	price := domainArtwork.MaxPrice + 1
	_, err = svc.UpdateArtwork(context.Background(), uuid.New(), uuid.New(), &UpdateArtworkRequest{Price: &price})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUpdateArtwork_OwnerOnly(t *testing.T) {
	svc, repo, _ := newMockedService(t)
	artworkID := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
		ID: artworkID, ArtistID: uuid.New(), Status: domainArtwork.StatusPublished,
	}, nil)

	title := "Mine now"
	_, err := svc.UpdateArtwork(context.Background(), uuid.New(), artworkID, &UpdateArtworkRequest{Title: &title})
	assert.ErrorIs(t, err, domainArtwork.ErrNotOwner)
}

func TestUpdateArtwork_AppliesPartialChanges(t *testing.T) {
	svc, repo, _ := newMockedService(t)
	artistID, artworkID := uuid.New(), uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
		ID: artworkID, ArtistID: artistID, Title: "Old", Price: 100, Stock: 2, Status: domainArtwork.StatusPublished,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domainArtwork.Artwork) error {
		assert.Equal(t, "Old", a.Title)
		assert.Equal(t, 0, a.Stock)
		assert.Equal(t, domainArtwork.StatusHidden, a.Status)
		return nil
	})

	hidden := "hidden"
	resp, err := svc.UpdateArtwork(context.Background(), artistID, artworkID, &UpdateArtworkRequest{
		Stock:  intPtr(0),
		Status: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, "hidden", resp.Status)
}

func TestUpdateArtwork_RemovedIsNotFound(t *testing.T) {
	svc, repo, _ := newMockedService(t)
	artistID, artworkID := uuid.New(), uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
		ID: artworkID, ArtistID: artistID, Status: domainArtwork.StatusRemoved,
	}, nil)

	_, err := svc.UpdateArtwork(context.Background(), artistID, artworkID, &UpdateArtworkRequest{})
	assert.ErrorIs(t, err, domainArtwork.ErrArtworkNotFound)
}

func TestDeleteArtwork(t *testing.T) {
	artistID, artworkID := uuid.New(), uuid.New()
	stored := &domainArtwork.Artwork{ID: artworkID, ArtistID: artistID, Status: domainArtwork.StatusPublished}

	tests := []struct {
		name    string
		viewer  *Viewer
		wantErr error
	}{
		{name: "owner", viewer: &Viewer{UserID: artistID, Role: domainUser.RoleArtist}},
		{name: "admin", viewer: &Viewer{UserID: uuid.New(), Role: domainUser.RoleAdmin}},
		{name: "other artist", viewer: &Viewer{UserID: uuid.New(), Role: domainUser.RoleArtist}, wantErr: domainArtwork.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newMockedService(t)
			copied := *stored
			repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&copied, nil)
			if tt.wantErr == nil {
				repo.EXPECT().UpdateStatus(gomock.Any(), artworkID, domainArtwork.StatusRemoved).Return(nil)
			}

			err := svc.DeleteArtwork(context.Background(), tt.viewer, artworkID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetArtwork_Visibility(t *testing.T) {
	artistID, artworkID := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		viewer  *Viewer
		visible bool
	}{
		{name: "anonymous", viewer: nil, visible: false},
		{name: "stranger", viewer: &Viewer{UserID: uuid.New(), Role: domainUser.RoleBuyer}, visible: false},
		{name: "owner", viewer: &Viewer{UserID: artistID, Role: domainUser.RoleArtist}, visible: true},
		{name: "admin", viewer: &Viewer{UserID: uuid.New(), Role: domainUser.RoleAdmin}, visible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newMockedService(t)
			repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
				ID: artworkID, ArtistID: artistID, Status: domainArtwork.StatusHidden,
			}, nil)

			resp, err := svc.GetArtwork(context.Background(), tt.viewer, artworkID)
			if !tt.visible {
				assert.ErrorIs(t, err, domainArtwork.ErrArtworkNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.viewer.UserID == artistID, resp.IsMine)
		})
	}
}

func TestListArtworks_FilterByViewer(t *testing.T) {
	t.Run("anonymous sees published only", func(t *testing.T) {
		svc, repo, _ := newMockedService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *domainArtwork.Filter) ([]*domainArtwork.Artwork, int64, error) {
			assert.Equal(t, []domainArtwork.Status{domainArtwork.StatusPublished}, f.Statuses)
			assert.Nil(t, f.VisibleTo)
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, 20, f.PageSize)
			return []*domainArtwork.Artwork{{ID: uuid.New()}}, 21, nil
		})

		resp, err := svc.ListArtworks(context.Background(), nil, &ListArtworksRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.Artworks, 1)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("artist also sees own unpublished", func(t *testing.T) {
		svc, repo, _ := newMockedService(t)
		viewer := &Viewer{UserID: uuid.New(), Role: domainUser.RoleArtist}
		mine := &domainArtwork.Artwork{ID: uuid.New(), ArtistID: viewer.UserID, Status: domainArtwork.StatusHidden}
		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *domainArtwork.Filter) ([]*domainArtwork.Artwork, int64, error) {
			require.NotNil(t, f.VisibleTo)
			assert.Equal(t, viewer.UserID, *f.VisibleTo)
			return []*domainArtwork.Artwork{mine}, 1, nil
		})

		resp, err := svc.ListArtworks(context.Background(), viewer, &ListArtworksRequest{})
		require.NoError(t, err)
		assert.True(t, resp.Artworks[0].IsMine)
	})

	t.Run("admin is unrestricted", func(t *testing.T) {
		svc, repo, _ := newMockedService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *domainArtwork.Filter) ([]*domainArtwork.Artwork, int64, error) {
			assert.Empty(t, f.Statuses)
			assert.Nil(t, f.VisibleTo)
			return nil, 0, nil
		})

		_, err := svc.ListArtworks(context.Background(), &Viewer{UserID: uuid.New(), Role: domainUser.RoleAdmin}, &ListArtworksRequest{})
		require.NoError(t, err)
	})
}

func TestListArtworks_PriceRange(t *testing.T) {
	svc, _, _ := newMockedService(t)
	minPrice, maxPrice := int64(500), int64(100)

	_, err := svc.ListArtworks(context.Background(), nil, &ListArtworksRequest{MinPrice: &minPrice, MaxPrice: &maxPrice})
	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestModerateArtwork_PublishesEvent(t *testing.T) {
	svc, repo, publisher := newMockedService(t)
	artistID, artworkID := uuid.New(), uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
		ID: artworkID, ArtistID: artistID, Title: "Storm", Status: domainArtwork.StatusPublished,
	}, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), artworkID, domainArtwork.StatusHidden).Return(nil)

	resp, err := svc.ModerateArtwork(context.Background(), uuid.New(), artworkID, &ModerateArtworkRequest{
		Status: "hidden",
		Reason: "copyright complaint",
	})
	require.NoError(t, err)
	assert.Equal(t, "hidden", resp.Status)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, notification.EventArtworkModerated, event.Type)
	assert.Equal(t, artistID, event.RecipientID)
	assert.Equal(t, "copyright complaint", event.Data["reason"])
}

func TestModerateArtwork_PublishFailureIsNotFatal(t *testing.T) {
	svc, repo, publisher := newMockedService(t)
	publisher.err = errors.New("broker down")
	artworkID := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), artworkID).Return(&domainArtwork.Artwork{
		ID: artworkID, ArtistID: uuid.New(), Status: domainArtwork.StatusHidden,
	}, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), artworkID, domainArtwork.StatusPublished).Return(nil)

	_, err := svc.ModerateArtwork(context.Background(), uuid.New(), artworkID, &ModerateArtworkRequest{Status: "published"})
	assert.NoError(t, err)
}
