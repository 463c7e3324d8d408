package services

import (
	"context"
	"io"
	"time"

	"github.com/friendsleague/server/models"
	"github.com/friendsleague/server/repositories"
	"github.com/friendsleague/server/storage"
)

// In-memory fakes for the repository interfaces. Each test seeds only the
// maps it needs.

type fakeProfileRepo struct {
	profiles map[int]*models.Profile
	byEmail  map[string]*models.Profile
	nextID   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[int]*models.Profile),
		byEmail:  make(map[string]*models.Profile),
		nextID:   1,
	}
}

func (f *fakeProfileRepo) add(p models.Profile) *models.Profile {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	stored := p
	f.profiles[stored.ID] = &stored
	if stored.Email != "" {
		f.byEmail[stored.Email] = &stored
	}
	return &stored
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	if _, ok := f.byEmail[profile.Email]; ok {
		return repositories.ErrProfileEmailConflict
	}
	for _, p := range f.profiles {
		if p.Username == profile.Username {
			return repositories.ErrProfileUsernameConflict
		}
	}
	profile.ID = f.nextID
	f.nextID++
	profile.CreatedAt = time.Now()
	stored := *profile
	f.profiles[stored.ID] = &stored
	f.byEmail[stored.Email] = &stored
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id int) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileRepo) ListByIDs(_ context.Context, ids []int) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) UpdateUsername(_ context.Context, id int, username string) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	for otherID, other := range f.profiles {
		if otherID != id && other.Username == username {
			return repositories.ErrProfileUsernameConflict
		}
	}
	p.Username = username
	return nil
}

func (f *fakeProfileRepo) UpdateAvatarKey(_ context.Context, id int, avatarKey *string) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.AvatarKey = avatarKey
	return nil
}

type fakeCompetitionRepo struct {
	competitions map[int]*models.Competition
	nextID       int
	finishCalls  int
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{
		competitions: make(map[int]*models.Competition),
		nextID:       1,
	}
}

func (f *fakeCompetitionRepo) add(c models.Competition) *models.Competition {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	stored := c
	f.competitions[stored.ID] = &stored
	return &stored
}

func (f *fakeCompetitionRepo) Create(_ context.Context, _ repositories.SQLExecutor, c *models.Competition) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	stored := *c
	f.competitions[stored.ID] = &stored
	return nil
}

func (f *fakeCompetitionRepo) GetByID(_ context.Context, id int) (*models.Competition, error) {
	c, ok := f.competitions[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCompetitionRepo) List(_ context.Context, _ repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	out := make([]models.Competition, 0, len(f.competitions))
	for _, c := range f.competitions {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCompetitionRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.CompetitionStatus) error {
	c, ok := f.competitions[id]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeCompetitionRepo) Finish(_ context.Context, _ repositories.SQLExecutor, id, organizerID int, winnerID *int) error {
	f.finishCalls++
	c, ok := f.competitions[id]
	if !ok || c.OrganizerID != organizerID {
		return repositories.ErrCompetitionNotOwnedOrGone
	}
	c.Status = models.CompetitionFinished
	c.WinnerID = winnerID
	return nil
}

func (f *fakeCompetitionRepo) DeleteByOrganizer(_ context.Context, id, organizerID int) error {
	c, ok := f.competitions[id]
	if !ok || c.OrganizerID != organizerID {
		return repositories.ErrCompetitionNotOwnedOrGone
	}
	delete(f.competitions, id)
	return nil
}

type fakeParticipantRepo struct {
	byCompetition map[int][]models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{byCompetition: make(map[int][]models.Participant)}
}

func (f *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	f.byCompetition[p.CompetitionID] = append(f.byCompetition[p.CompetitionID], *p)
	return nil
}

func (f *fakeParticipantRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, competitionID int, userIDs []int) error {
	for _, id := range userIDs {
		f.byCompetition[competitionID] = append(f.byCompetition[competitionID], models.Participant{
			CompetitionID: competitionID,
			UserID:        id,
		})
	}
	return nil
}

func (f *fakeParticipantRepo) ListByCompetition(_ context.Context, competitionID int) ([]models.Participant, error) {
	return append([]models.Participant(nil), f.byCompetition[competitionID]...), nil
}

func (f *fakeParticipantRepo) Delete(_ context.Context, _ int) error {
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
	creates int
	updates int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) add(m models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = f.nextID
		f.nextID++
	}
	stored := m
	f.matches[stored.ID] = &stored
	return &stored
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	f.creates++
	m.ID = f.nextID
	f.nextID++
	m.CreatedAt = time.Now()
	stored := *m
	f.matches[stored.ID] = &stored
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatchRepo) ListByCompetition(_ context.Context, competitionID int, status *models.MatchStatus) ([]models.Match, error) {
	out := make([]models.Match, 0)
	for _, m := range f.matches {
		if m.CompetitionID != competitionID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateResult(_ context.Context, id int, score1, score2 int, winnerID *int, matchDate time.Time) error {
	f.updates++
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score1 = score1
	m.Score2 = score2
	m.Status = models.MatchFinished
	m.MatchDate = &matchDate
	m.WinnerID = winnerID
	return nil
}

func (f *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

type fakeGameRepo struct {
	games  map[int]*models.Game
	nextID int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[int]*models.Game), nextID: 1}
}

func (f *fakeGameRepo) Create(_ context.Context, game *models.Game) error {
	for _, g := range f.games {
		if g.Slug == game.Slug {
			return repositories.ErrGameSlugConflict
		}
	}
	game.ID = f.nextID
	f.nextID++
	game.CreatedAt = time.Now()
	stored := *game
	f.games[stored.ID] = &stored
	return nil
}

func (f *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGameRepo) GetBySlug(_ context.Context, slug string) (*models.Game, error) {
	for _, g := range f.games {
		if g.Slug == slug {
			copied := *g
			return &copied, nil
		}
	}
	return nil, repositories.ErrGameNotFound
}

func (f *fakeGameRepo) List(_ context.Context, _ repositories.ListGamesFilter) ([]models.Game, error) {
	out := make([]models.Game, 0, len(f.games))
	for _, g := range f.games {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeGameRepo) UpdateCoverKey(_ context.Context, gameID int, coverKey *string) error {
	g, ok := f.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.CoverKey = coverKey
	return nil
}

func (f *fakeGameRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(f.games, id)
	return nil
}

type fakeBacklogRepo struct {
	items  map[[2]int]*models.BacklogItem
	nextID int
}

func newFakeBacklogRepo() *fakeBacklogRepo {
	return &fakeBacklogRepo{items: make(map[[2]int]*models.BacklogItem), nextID: 1}
}

func (f *fakeBacklogRepo) Upsert(_ context.Context, item *models.BacklogItem) error {
	key := [2]int{item.UserID, item.GameID}
	if existing, ok := f.items[key]; ok {
		existing.Status = item.Status
		existing.UpdatedAt = time.Now()
		item.ID = existing.ID
		item.UpdatedAt = existing.UpdatedAt
		return nil
	}
	item.ID = f.nextID
	f.nextID++
	item.UpdatedAt = time.Now()
	stored := *item
	f.items[key] = &stored
	return nil
}

func (f *fakeBacklogRepo) ListByUser(_ context.Context, userID int) ([]models.BacklogItem, error) {
	out := make([]models.BacklogItem, 0)
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeBacklogRepo) Delete(_ context.Context, userID, gameID int) error {
	key := [2]int{userID, gameID}
	if _, ok := f.items[key]; !ok {
		return repositories.ErrBacklogItemNotFound
	}
	delete(f.items, key)
	return nil
}

// fakeUploader records uploads and hands out predictable URLs.
type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

// fakeBroadcaster collects broadcast messages per room.
type fakeBroadcaster struct {
	rooms    []string
	messages []interface{}
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.rooms = append(f.rooms, roomID)
	f.messages = append(f.messages, message)
}
