package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// fixedClock is a settable clock so window and expiry rules are testable at
// exact instants.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{now: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type statusChange struct {
	roomID string
	status domain.RoomStatus
}

type fakeRoomRepo struct {
	mu      sync.Mutex
	rooms   map[string]domain.Room
	changes []statusChange
}

func newFakeRoomRepo(rooms ...domain.Room) *fakeRoomRepo {
	repo := &fakeRoomRepo{rooms: make(map[string]domain.Room)}
	for _, r := range rooms {
		repo.rooms[r.ID] = r
	}
	return repo
}

func (f *fakeRoomRepo) Create(_ context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	out := r
	return &out, nil
}

func (f *fakeRoomRepo) GetByNumber(_ context.Context, number string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.Number == number {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

func (f *fakeRoomRepo) List(_ context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeRoomRepo) ListBookable(_ context.Context) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		if r.Status.BookableNow() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeRoomRepo) Update(_ context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[room.ID]; !ok {
		return domain.ErrRoomNotFound
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) UpdateStatus(_ context.Context, id string, status domain.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	r.Status = status
	f.rooms[id] = r
	f.changes = append(f.changes, statusChange{roomID: id, status: status})
	return nil
}

func (f *fakeRoomRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) statusOf(id string) domain.RoomStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[id].Status
}

func (f *fakeRoomRepo) changeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.changes)
}

type fakeReservationRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Reservation

	// createErrs is popped per Create call; nil entries mean success.
	createErrs []error
	// overlapErr fails ListOverlapping, for fail-open tests.
	overlapErr error
	// busyOverride, when set, is returned by BusyRoomIDs verbatim. It lets a
	// test make the alternatives list disagree with the per-room check.
	busyOverride map[string]bool
}

func newFakeReservationRepo(seed ...domain.Reservation) *fakeReservationRepo {
	repo := &fakeReservationRepo{byID: make(map[string]domain.Reservation)}
	for _, r := range seed {
		repo.byID[r.ID] = r
	}
	return repo
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.byID {
		if existing.Number == res.Number {
			return domain.ErrDuplicateNumber
		}
	}
	f.byID[res.ID] = *res
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	out := r
	return &out, nil
}

func (f *fakeReservationRepo) GetByNumber(_ context.Context, number string) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.Number == number {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrReservationNotFound
}

func (f *fakeReservationRepo) List(_ context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.byID {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.RoomID != "" && r.RoomID != filter.RoomID {
			continue
		}
		if filter.GuestID != "" && r.GuestID != filter.GuestID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeReservationRepo) ListOverlapping(_ context.Context, roomID string, ival domain.Interval, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	var out []domain.Reservation
	for _, r := range f.byID {
		if r.RoomID != roomID || !statusIn(r.Status, statuses) {
			continue
		}
		if r.Interval().Overlaps(ival) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) BusyRoomIDs(_ context.Context, ival domain.Interval, statuses []domain.ReservationStatus) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyOverride != nil {
		return f.busyOverride, nil
	}
	busy := make(map[string]bool)
	for _, r := range f.byID {
		if statusIn(r.Status, statuses) && r.Interval().Overlaps(ival) {
			busy[r.RoomID] = true
		}
	}
	return busy, nil
}

func (f *fakeReservationRepo) Update(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[res.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	f.byID[res.ID] = *res
	return nil
}

func (f *fakeReservationRepo) ListNoShowCandidates(_ context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.byID {
		if r.Status == domain.ReservationStatusConfirmed && !r.CheckIn.After(cutoff) && r.CheckedInAt == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func statusIn(s domain.ReservationStatus, set []domain.ReservationStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type fakeGuestRepo struct {
	mu     sync.Mutex
	guests map[string]domain.Guest
}

func newFakeGuestRepo(seed ...domain.Guest) *fakeGuestRepo {
	repo := &fakeGuestRepo{guests: make(map[string]domain.Guest)}
	for _, g := range seed {
		repo.guests[g.ID] = g
	}
	return repo
}

func (f *fakeGuestRepo) Create(_ context.Context, g *domain.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests[g.ID] = *g
	return nil
}

func (f *fakeGuestRepo) GetByID(_ context.Context, id string) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	out := g
	return &out, nil
}

func (f *fakeGuestRepo) Search(_ context.Context, term string, limit int) ([]domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Guest
	for _, g := range f.guests {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGuestRepo) Update(_ context.Context, g *domain.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.guests[g.ID]; !ok {
		return domain.ErrGuestNotFound
	}
	f.guests[g.ID] = *g
	return nil
}

func (f *fakeGuestRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.guests[id]; !ok {
		return domain.ErrGuestNotFound
	}
	delete(f.guests, id)
	return nil
}

type fakePeriodRepo struct {
	mu      sync.Mutex
	periods []domain.PeriodType
	listErr error
	calls   int
}

func (f *fakePeriodRepo) Create(_ context.Context, p *domain.PeriodType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, *p)
	return nil
}

func (f *fakePeriodRepo) GetByCode(_ context.Context, code string) (*domain.PeriodType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.periods {
		if p.Code == code {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

func (f *fakePeriodRepo) ListActive(_ context.Context) ([]domain.PeriodType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.PeriodType, len(f.periods))
	copy(out, f.periods)
	return out, nil
}

func (f *fakePeriodRepo) Update(_ context.Context, p *domain.PeriodType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.periods {
		if f.periods[i].ID == p.ID {
			f.periods[i] = *p
			return nil
		}
	}
	return domain.ErrPeriodNotFound
}

func (f *fakePeriodRepo) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *fakePeriodRepo) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	extras map[string]float64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]domain.Order),
		extras: make(map[string]float64),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := o
	return &out, nil
}

func (f *fakeOrderRepo) ListByReservation(_ context.Context, reservationID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.ReservationID == reservationID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListOpen(_ context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.Status == domain.OrderStatusOpen {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, deliveredAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.DeliveredAt = deliveredAt
	f.orders[id] = o
	return nil
}

func (f *fakeOrderRepo) SumExtras(_ context.Context, reservationID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extras[reservationID], nil
}

type fakeProductRepo struct {
	mu          sync.Mutex
	products    map[string]domain.Product
	adjustments []struct {
		id    string
		delta int
	}
}

func newFakeProductRepo(seed ...domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]domain.Product)}
	for _, p := range seed {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := p
	return &out, nil
}

func (f *fakeProductRepo) List(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	f.products[id] = p
	f.adjustments = append(f.adjustments, struct {
		id    string
		delta int
	}{id, delta})
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[string]domain.Staff
}

func newFakeStaffRepo(seed ...domain.Staff) *fakeStaffRepo {
	repo := &fakeStaffRepo{staff: make(map[string]domain.Staff)}
	for _, s := range seed {
		repo.staff[s.ID] = s
	}
	return repo
}

func (f *fakeStaffRepo) Create(_ context.Context, s *domain.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.staff {
		if existing.Email == s.Email {
			return domain.NewValidationError("staff email %s already exists", s.Email)
		}
	}
	f.staff[s.ID] = *s
	return nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.staff[id]
	if !ok {
		return nil, domain.ErrStaffNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.staff {
		if s.Email == email {
			out := s
			return &out, nil
		}
	}
	return nil, domain.ErrStaffNotFound
}

func (f *fakeStaffRepo) List(_ context.Context) ([]domain.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Staff
	for _, s := range f.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStaffRepo) Update(_ context.Context, s *domain.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.staff[s.ID]; !ok {
		return domain.ErrStaffNotFound
	}
	f.staff[s.ID] = *s
	return nil
}

func (f *fakeStaffRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.staff[id]; !ok {
		return domain.ErrStaffNotFound
	}
	delete(f.staff, id)
	return nil
}

func (f *fakeStaffRepo) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.staff)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.StaffToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]domain.StaffToken)}
}

func (f *fakeTokenRepo) Store(_ context.Context, t *domain.StaffToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.ID] = *t
	return nil
}

func (f *fakeTokenRepo) GetByHash(_ context.Context, hash string) (*domain.StaffToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == hash {
			out := t
			return &out, nil
		}
	}
	return nil, auth.ErrInvalidToken
}

func (f *fakeTokenRepo) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return auth.ErrInvalidToken
	}
	t.Revoked = true
	f.tokens[id] = t
	return nil
}

func (f *fakeTokenRepo) RevokeAllForStaff(_ context.Context, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tokens {
		if t.StaffID == staffID {
			t.Revoked = true
			f.tokens[id] = t
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for id, t := range f.tokens {
		if t.ExpiresAt.Before(now) || t.Revoked {
			delete(f.tokens, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeTokenRepo) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tokens {
		if !t.Revoked {
			n++
		}
	}
	return n
}

// seqNumbers hands out a fixed sequence of reservation numbers, sticking on
// the last one.
type seqNumbers struct {
	mu   sync.Mutex
	seq  []string
	next int
}

func (n *seqNumbers) NewReservationNumber(time.Time) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.next >= len(n.seq) {
		return n.seq[len(n.seq)-1]
	}
	num := n.seq[n.next]
	n.next++
	return num
}
