package service

import (
	"context"
	"time"

	"openschool/internal/model"
)

// In-memory repository fakes shared by the service tests. Every fake keeps a
// plain map keyed by id and copies rows on read, mimicking a scan.

type fakeCourseRepo struct {
	courses map[int64]*model.Course
	nextID  int64
	getErr  error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[int64]*model.Course)}
}

func (r *fakeCourseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) GetCourseByID(_ context.Context, id int64) (*model.Course, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) ListCourses(_ context.Context, limit, offset int) ([]model.Course, error) {
	out := make([]model.Course, 0, len(r.courses))
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.courses[id]; ok {
			out = append(out, *c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCourseRepo) CountCourses(_ context.Context) (int, error) {
	return len(r.courses), nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, c *model.Course) error {
	c.UpdatedAt = time.Now()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) SetOwner(_ context.Context, courseID, ownerID int64) error {
	if c, ok := r.courses[courseID]; ok {
		id := ownerID
		c.OwnerID = &id
	}
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(_ context.Context, id int64) error {
	delete(r.courses, id)
	return nil
}

type fakeLessonRepo struct {
	lessons map[int64]*model.Lesson
	nextID  int64
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[int64]*model.Lesson)}
}

func (r *fakeLessonRepo) CreateLesson(_ context.Context, l *model.Lesson) error {
	r.nextID++
	l.ID = r.nextID
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *fakeLessonRepo) GetLessonByID(_ context.Context, id int64) (*model.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) ListLessons(_ context.Context, limit, offset int) ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(r.lessons))
	for id := int64(1); id <= r.nextID; id++ {
		if l, ok := r.lessons[id]; ok {
			out = append(out, *l)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLessonRepo) CountLessons(_ context.Context) (int, error) {
	return len(r.lessons), nil
}

func (r *fakeLessonRepo) ListLessonsByCourseID(_ context.Context, courseID int64) ([]model.Lesson, error) {
	var out []model.Lesson
	for id := int64(1); id <= r.nextID; id++ {
		if l, ok := r.lessons[id]; ok && l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) UpdateLesson(_ context.Context, l *model.Lesson) error {
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *fakeLessonRepo) DeleteLesson(_ context.Context, id int64) error {
	delete(r.lessons, id)
	return nil
}

type fakeSubscriptionRepo struct {
	subs   map[int64]*model.Subscription
	nextID int64
	// emails served by ListActiveSubscriberEmails, keyed by course id
	emails   map[int64][]string
	listErr  error
	existErr error
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:   make(map[int64]*model.Subscription),
		emails: make(map[int64][]string),
	}
}

func (r *fakeSubscriptionRepo) GetByOwnerAndCourse(_ context.Context, ownerID, courseID int64) (*model.Subscription, error) {
	for _, s := range r.subs {
		if s.OwnerID == ownerID && s.CourseID == courseID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) CreateSubscription(_ context.Context, s *model.Subscription) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.subs[s.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) DeleteSubscription(_ context.Context, id int64) error {
	delete(r.subs, id)
	return nil
}

func (r *fakeSubscriptionRepo) ExistsByOwnerAndCourse(ctx context.Context, ownerID, courseID int64) (bool, error) {
	if r.existErr != nil {
		return false, r.existErr
	}
	s, err := r.GetByOwnerAndCourse(ctx, ownerID, courseID)
	return s != nil, err
}

func (r *fakeSubscriptionRepo) ListActiveSubscriberEmails(_ context.Context, courseID int64) ([]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.emails[courseID], nil
}

type fakeUserRepo struct {
	users         map[int64]*model.User
	nextID        int64
	lastLoginSet  map[int64]time.Time
	deactivatedAt time.Time
	deactivated   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:        make(map[int64]*model.User),
		lastLoginSet: make(map[int64]time.Time),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.lastLoginSet[id] = at
	return nil
}

func (r *fakeUserRepo) DeactivateInactiveSince(_ context.Context, cutoff time.Time) (int64, error) {
	r.deactivatedAt = cutoff
	return r.deactivated, nil
}

type fakePaymentRepo struct {
	payments map[int64]*model.Payment
	nextID   int64
	markErr  error
	marked   []int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*model.Payment)}
}

func (r *fakePaymentRepo) CreatePayment(_ context.Context, p *model.Payment) error {
	r.nextID++
	p.ID = r.nextID
	p.PaymentDate = time.Now()
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetPaymentByID(_ context.Context, id int64) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListPayments(_ context.Context, filter model.PaymentFilter) ([]model.Payment, error) {
	var out []model.Payment
	for id := int64(1); id <= r.nextID; id++ {
		p, ok := r.payments[id]
		if !ok {
			continue
		}
		if filter.PaidCourseID != nil && (p.PaidCourseID == nil || *p.PaidCourseID != *filter.PaidCourseID) {
			continue
		}
		if filter.PaidLessonID != nil && (p.PaidLessonID == nil || *p.PaidLessonID != *filter.PaidLessonID) {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePaymentRepo) ListPaymentsByUserID(_ context.Context, userID int64) ([]model.Payment, error) {
	var out []model.Payment
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.payments[id]; ok && p.UserID != nil && *p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SetStripeSession(_ context.Context, id int64, sessionID, link string) error {
	if p, ok := r.payments[id]; ok {
		s, l := sessionID, link
		p.StripeSessionID = &s
		p.StripeLink = &l
	}
	return nil
}

func (r *fakePaymentRepo) MarkPaid(_ context.Context, id int64) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.marked = append(r.marked, id)
	if p, ok := r.payments[id]; ok {
		p.IsPaid = true
	}
	return nil
}

func (r *fakePaymentRepo) DeletePayment(_ context.Context, id int64) error {
	delete(r.payments, id)
	return nil
}

type fakeQueue struct {
	enqueued []int64
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, courseID int64) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, courseID)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent   []sentMail
	failTo string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	if to == m.failTo {
		return context.DeadlineExceeded
	}
	return nil
}

type fakeGateway struct {
	sessionID string
	link      string
	createErr error

	paidSessions map[string]bool
	paidErr      error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, _ string, _ float64) (string, string, error) {
	if g.createErr != nil {
		return "", "", g.createErr
	}
	return g.sessionID, g.link, nil
}

func (g *fakeGateway) IsSessionPaid(_ context.Context, sessionID string) (bool, error) {
	if g.paidErr != nil {
		return false, g.paidErr
	}
	return g.paidSessions[sessionID], nil
}
