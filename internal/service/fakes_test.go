package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
)

// In-memory repository fakes. They mirror the SQL predicates of the
// real implementations, including the unique-index conflicts and the
// conditional UPDATE/DELETE semantics, so lifecycle races can be
// exercised without a database.

type pairKey struct {
	left  uint
	right uint
}

type fakeMembershipRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[pairKey]*model.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: make(map[pairKey]*model.Membership)}
}

func (f *fakeMembershipRepo) Create(_ context.Context, m *model.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{m.GroupID, m.UserID}
	if _, ok := f.rows[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.seq++
	m.ID = f.seq
	stored := *m
	f.rows[key] = &stored
	return nil
}

func (f *fakeMembershipRepo) Find(_ context.Context, groupID, userID uint) (*model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[pairKey{groupID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMembershipRepo) ExistsApproved(_ context.Context, groupID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[pairKey{groupID, userID}]
	return ok && m.Status == model.StatusApproved, nil
}

func (f *fakeMembershipRepo) ApproveIfPending(_ context.Context, groupID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[pairKey{groupID, userID}]
	if !ok || m.Status != model.StatusPending || !m.Invited {
		return false, nil
	}
	m.Status = model.StatusApproved
	return true, nil
}

func (f *fakeMembershipRepo) DeletePendingInvite(_ context.Context, groupID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{groupID, userID}
	m, ok := f.rows[key]
	if !ok || m.Status != model.StatusPending || !m.Invited {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeMembershipRepo) DeleteApprovedNonCreator(_ context.Context, groupID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{groupID, userID}
	m, ok := f.rows[key]
	if !ok || m.Status != model.StatusApproved || m.IsCreator {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeMembershipRepo) ListGroupMembers(_ context.Context, groupID uint, status string) ([]model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Membership
	for _, m := range f.rows {
		if m.GroupID == groupID && (status == "" || m.Status == status) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListUserGroups(_ context.Context, userID uint, status string) ([]model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Group
	for _, m := range f.rows {
		if m.UserID == userID && (status == "" || m.Status == status) {
			out = append(out, model.Group{ID: m.GroupID})
		}
	}
	return out, nil
}

// rowCount reports how many rows exist for the group/user pair, for
// asserting that racing requests never produced duplicates.
func (f *fakeMembershipRepo) rowCount(groupID, userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[pairKey{groupID, userID}]; ok {
		return 1
	}
	return 0
}

type fakeGroupRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*model.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{rows: make(map[uint]*model.Group)}
}

func (f *fakeGroupRepo) Create(_ context.Context, g *model.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	g.ID = f.seq
	stored := *g
	f.rows[g.ID] = &stored
	return nil
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id uint) (*model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, g *model.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[g.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *g
	f.rows[g.ID] = &stored
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[uint]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.seq++
	u.ID = f.seq
	stored := *u
	f.rows[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *u
	f.rows[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeEventRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{rows: make(map[uint]*model.Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = f.seq
	stored := *e
	f.rows[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) ListByGroup(_ context.Context, groupID uint) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.rows {
		if e.GroupID == groupID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByUser(context.Context, uint) ([]model.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *e
	f.rows[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeParticipationRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[pairKey]*model.Participation
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{rows: make(map[pairKey]*model.Participation)}
}

func (f *fakeParticipationRepo) Create(_ context.Context, p *model.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{p.EventID, p.UserID}
	if _, ok := f.rows[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.seq++
	p.ID = f.seq
	stored := *p
	f.rows[key] = &stored
	return nil
}

func (f *fakeParticipationRepo) Find(_ context.Context, eventID, userID uint) (*model.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[pairKey{eventID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipationRepo) Exists(_ context.Context, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[pairKey{eventID, userID}]
	return ok, nil
}

func (f *fakeParticipationRepo) Delete(_ context.Context, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{eventID, userID}
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeParticipationRepo) ListParticipants(_ context.Context, eventID uint) ([]model.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Participation
	for _, p := range f.rows {
		if p.EventID == eventID && p.Participate {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{rows: make(map[uint]*model.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = f.seq
	stored := *c
	f.rows[c.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id uint) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) ListByEvent(_ context.Context, eventID uint) ([]repository.CommentWithReplies, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.CommentWithReplies
	for _, c := range f.rows {
		if c.EventID != eventID || c.ParentID != nil {
			continue
		}
		var replies int64
		for _, r := range f.rows {
			if r.ParentID != nil && *r.ParentID == c.ID {
				replies++
			}
		}
		out = append(out, repository.CommentWithReplies{Comment: *c, RepliesCount: replies})
	}
	return out, nil
}

func (f *fakeCommentRepo) ListReplies(_ context.Context, parentID uint) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Comment
	for _, c := range f.rows {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) addLikes(id uint, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[id]; ok {
		c.Likes += delta
	}
}

func (f *fakeCommentRepo) Update(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *c
	f.rows[c.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

// fakeReactionRepo mirrors the real repository's transactional shape:
// the reaction row and the likes counter move together or not at all.
// txErr simulates a transaction failure mid-flight.
type fakeReactionRepo struct {
	mu       sync.Mutex
	seq      uint
	rows     map[pairKey]*model.Reaction
	comments *fakeCommentRepo
	txErr    error
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{rows: make(map[pairKey]*model.Reaction)}
}

func (f *fakeReactionRepo) CreateWithLikes(_ context.Context, r *model.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{r.CommentID, r.UserID}
	if _, ok := f.rows[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if f.txErr != nil {
		return f.txErr
	}
	f.seq++
	r.ID = f.seq
	stored := *r
	f.rows[key] = &stored
	if f.comments != nil {
		f.comments.addLikes(r.CommentID, 1)
	}
	return nil
}

func (f *fakeReactionRepo) Exists(_ context.Context, commentID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[pairKey{commentID, userID}]
	return ok, nil
}

func (f *fakeReactionRepo) DeleteWithLikes(_ context.Context, commentID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey{commentID, userID}
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	if f.txErr != nil {
		return false, f.txErr
	}
	delete(f.rows, key)
	if f.comments != nil {
		f.comments.addLikes(commentID, -1)
	}
	return true, nil
}

type fakeImageRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*model.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{rows: make(map[uint]*model.Image)}
}

func (f *fakeImageRepo) Create(_ context.Context, img *model.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	img.ID = f.seq
	stored := *img
	f.rows[img.ID] = &stored
	return nil
}

func (f *fakeImageRepo) FindByID(_ context.Context, id uint) (*model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *img
	return &cp, nil
}

func (f *fakeImageRepo) ListByGroup(_ context.Context, groupID uint) ([]model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Image
	for _, img := range f.rows {
		if img.GroupID != nil && *img.GroupID == groupID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) ListByEvent(_ context.Context, eventID uint) ([]model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Image
	for _, img := range f.rows {
		if img.EventID != nil && *img.EventID == eventID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) ListByUser(_ context.Context, userID uint) ([]model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Image
	for _, img := range f.rows {
		if img.UserID != nil && *img.UserID == userID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	seq  uint
	rows []*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	m.ID = f.seq
	stored := *m
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id uint) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListByGroup returns newest first, like the real query.
func (f *fakeMessageRepo) ListByGroup(_ context.Context, groupID uint, limit, offset int) ([]model.Message, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.Message
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].GroupID == groupID {
			all = append(all, *f.rows[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeMessageRepo) Update(_ context.Context, m *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.rows {
		if stored.ID == m.ID {
			cp := *m
			f.rows[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.rows {
		if stored.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// recordingNotifier captures published events for assertions. err
// simulates a broker failure on every publish.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (n *recordingNotifier) Publish(key string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, key)
	return nil
}

func (n *recordingNotifier) keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}
