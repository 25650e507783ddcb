package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	"github.com/Masomatta/Afg-egov-portal/internal/events"
	"github.com/Masomatta/Afg-egov-portal/internal/storage"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

type memStore struct {
	stored []string
	fail   bool
}

func (s *memStore) Store(_ context.Context, name string, content io.Reader) (string, error) {
	if s.fail {
		return "", errors.New("storage unavailable")
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	locator := "/uploads/" + storage.ObjectKey(name)
	s.stored = append(s.stored, locator)
	return locator, nil
}

type fixture struct {
	st      *fakeState
	store   *memStore
	svc     *RequestService
	events  *[]events.Event
	citizen domain.Actor
	officer domain.Actor
	head    domain.Actor
	admin   domain.Actor
	dept    domain.Department
	offered domain.Service
}

func newFixture(t *testing.T, fee string) *fixture {
	t.Helper()

	st := newFakeState()
	dept := st.addDepartment("Civil Registry")
	otherDept := st.addDepartment("Transport")

	citizen := st.addUser(domain.User{Name: "Zahra", NationalID: "1001", Email: "zahra@example.com", Role: domain.RoleCitizen})
	officer := st.addUser(domain.User{Name: "Omid", Role: domain.RoleOfficer, DepartmentID: &dept.ID})
	head := st.addUser(domain.User{Name: "Farah", Role: domain.RoleDepartmentHead, DepartmentID: &dept.ID})
	admin := st.addUser(domain.User{Name: "Root", Role: domain.RoleAdmin})
	st.addUser(domain.User{Name: "Karim", Role: domain.RoleOfficer, DepartmentID: &otherDept.ID})

	feeDec := decimal.RequireFromString(fee)
	offered := st.addService(domain.Service{Name: "Birth Certificate", DepartmentID: dept.ID, Fee: feeDec})

	store := &memStore{}
	dispatcher := events.NewInMemoryDispatcher()
	captured := &[]events.Event{}
	for _, eventType := range []events.EventType{
		events.EventRequestSubmitted,
		events.EventRequestAssigned,
		events.EventRequestDecided,
		events.EventPaymentConfirmed,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			*captured = append(*captured, e)
			return nil
		})
	}

	svc := NewRequestService(RequestDependencies{
		Repos:      fakeRepos(st),
		Tx:         &fakeTxManager{st: st},
		Store:      store,
		Dispatcher: dispatcher,
	})

	return &fixture{
		st:      st,
		store:   store,
		svc:     svc,
		events:  captured,
		citizen: domain.ActorFor(&citizen),
		officer: domain.ActorFor(&officer),
		head:    domain.ActorFor(&head),
		admin:   domain.ActorFor(&admin),
		dept:    dept,
		offered: offered,
	}
}

func (f *fixture) submit(t *testing.T, files int) *domain.Request {
	t.Helper()
	uploads := make([]FileUpload, 0, files)
	for i := 0; i < files; i++ {
		uploads = append(uploads, FileUpload{
			Name:    fmt.Sprintf("doc%d.pdf", i),
			Content: strings.NewReader("content"),
		})
	}
	request, err := f.svc.Submit(context.Background(), f.citizen, f.offered.ID, "please process", uploads)
	require.NoError(t, err)
	return request
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestSubmitCreatesRequestBundle(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 2)

	assert.Equal(t, domain.RequestStatusSubmitted, request.Status)
	assert.Equal(t, f.citizen.ID, request.CitizenID)

	stored := f.st.requests[request.ID]
	assert.Equal(t, domain.RequestStatusSubmitted, stored.Status)

	docs, err := fakeRepos(f.st).Documents.ListByRequest(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Len(t, f.store.stored, 2)

	payment, ok := f.st.payments[request.ID]
	require.True(t, ok)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("150.00")))

	require.Len(t, f.st.notifications, 1)
	assert.Equal(t, f.citizen.ID, f.st.notifications[0].UserID)
	assert.Equal(t, "Your Birth Certificate request has been submitted successfully.", f.st.notifications[0].Message)

	require.Len(t, *f.events, 1)
	assert.Equal(t, events.EventRequestSubmitted, (*f.events)[0].Type)
}

func TestSubmitFreeServiceSkipsPayment(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	_, ok := f.st.payments[request.ID]
	assert.False(t, ok)
}

func TestSubmitFeeSnapshotIgnoresLaterEdit(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 0)

	svc := f.st.services[f.offered.ID]
	svc.Fee = decimal.RequireFromString("999.00")
	f.st.services[f.offered.ID] = svc

	payment := f.st.payments[request.ID]
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("150.00")))
}

func TestSubmitRejectsNonCitizen(t *testing.T) {
	f := newFixture(t, "0")
	_, err := f.svc.Submit(context.Background(), f.officer, f.offered.ID, "", nil)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
}

func TestSubmitUnknownServiceNotFound(t *testing.T) {
	f := newFixture(t, "0")
	_, err := f.svc.Submit(context.Background(), f.citizen, "missing", "", nil)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestSubmitStorageFailureLeavesNoRequest(t *testing.T) {
	f := newFixture(t, "150.00")
	f.store.fail = true

	_, err := f.svc.Submit(context.Background(), f.citizen, f.offered.ID, "", []FileUpload{
		{Name: "doc.pdf", Content: strings.NewReader("x")},
	})
	assert.Equal(t, "STORAGE_ERROR", errorCode(t, err))
	assert.Empty(t, f.st.requests)
	assert.Empty(t, f.st.payments)
}

func TestSubmitRollsBackWholeBundle(t *testing.T) {
	f := newFixture(t, "150.00")
	f.st.failNotifications = true

	_, err := f.svc.Submit(context.Background(), f.citizen, f.offered.ID, "", nil)
	require.Error(t, err)
	assert.Empty(t, f.st.requests)
	assert.Empty(t, f.st.payments)
	assert.Empty(t, f.st.notifications)
}

func TestDecideApprove(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.Decide(context.Background(), f.officer, request.ID, domain.RequestStatusApproved, "all good")
	require.NoError(t, err)

	stored := f.st.requests[request.ID]
	assert.Equal(t, domain.RequestStatusApproved, stored.Status)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, f.officer.ID, *stored.ReviewedBy)
	assert.NotNil(t, stored.ReviewedAt)

	require.Len(t, f.st.notifications, 2)
	assert.Equal(t, "Your Birth Certificate request has been approved.", f.st.notifications[1].Message)
}

func TestDecideRejectIncludesReason(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.Decide(context.Background(), f.head, request.ID, domain.RequestStatusRejected, "missing documents")
	require.NoError(t, err)

	require.Len(t, f.st.notifications, 2)
	assert.Equal(t, "Your Birth Certificate request has been rejected. Reason: missing documents", f.st.notifications[1].Message)
}

func TestDecideRequiresTerminalDecision(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.Decide(context.Background(), f.officer, request.ID, domain.RequestStatusUnderReview, "")
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestDecideCrossDepartmentDenied(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	otherDept := f.st.addDepartment("Elsewhere")
	outsider := f.st.addUser(domain.User{Name: "Out", Role: domain.RoleOfficer, DepartmentID: &otherDept.ID})

	err := f.svc.Decide(context.Background(), domain.ActorFor(&outsider), request.ID, domain.RequestStatusApproved, "")
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
	assert.Equal(t, domain.RequestStatusSubmitted, f.st.requests[request.ID].Status)
}

func TestDecideTwiceConflicts(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	require.NoError(t, f.svc.Decide(context.Background(), f.officer, request.ID, domain.RequestStatusApproved, ""))

	err := f.svc.Decide(context.Background(), f.head, request.ID, domain.RequestStatusRejected, "")
	assert.Equal(t, "CONFLICT", errorCode(t, err))
	assert.Equal(t, domain.RequestStatusApproved, f.st.requests[request.ID].Status)
}

func TestAssignPromotesSubmitted(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.Assign(context.Background(), f.head, request.ID, f.officer.ID)
	require.NoError(t, err)

	stored := f.st.requests[request.ID]
	assert.Equal(t, domain.RequestStatusUnderReview, stored.Status)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, f.officer.ID, *stored.ReviewedBy)
}

func TestAssignByPlainOfficerDenied(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.Assign(context.Background(), f.officer, request.ID, f.officer.ID)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
}

func TestAssignOutsideDepartmentDenied(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	var outsider string
	for id, u := range f.st.users {
		if u.Name == "Karim" {
			outsider = id
		}
	}
	require.NotEmpty(t, outsider)

	err := f.svc.Assign(context.Background(), f.head, request.ID, outsider)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
}

func TestAssignTerminalConflicts(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)
	require.NoError(t, f.svc.Decide(context.Background(), f.officer, request.ID, domain.RequestStatusApproved, ""))

	err := f.svc.Assign(context.Background(), f.admin, request.ID, f.officer.ID)
	assert.Equal(t, "CONFLICT", errorCode(t, err))
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 0)

	require.NoError(t, f.svc.ConfirmPayment(context.Background(), f.citizen, request.ID))

	payment := f.st.payments[request.ID]
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	assert.NotNil(t, payment.PaymentDate)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 0)

	require.NoError(t, f.svc.ConfirmPayment(context.Background(), f.citizen, request.ID))
	first := f.st.payments[request.ID].PaymentDate

	require.NoError(t, f.svc.ConfirmPayment(context.Background(), f.citizen, request.ID))
	assert.Equal(t, first, f.st.payments[request.ID].PaymentDate)
}

func TestConfirmPaymentMissingRowNotFound(t *testing.T) {
	f := newFixture(t, "0")
	request := f.submit(t, 0)

	err := f.svc.ConfirmPayment(context.Background(), f.citizen, request.ID)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestConfirmPaymentForeignRequestDenied(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 0)

	other := f.st.addUser(domain.User{Name: "Other", Role: domain.RoleCitizen})
	err := f.svc.ConfirmPayment(context.Background(), domain.ActorFor(&other), request.ID)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
	assert.Equal(t, domain.PaymentStatusPending, f.st.payments[request.ID].Status)
}

func TestListForActorScoping(t *testing.T) {
	f := newFixture(t, "0")
	mine := f.submit(t, 0)

	other := f.st.addUser(domain.User{Name: "Other", NationalID: "1002", Role: domain.RoleCitizen})
	otherReq, err := f.svc.Submit(context.Background(), domain.ActorFor(&other), f.offered.ID, "", nil)
	require.NoError(t, err)

	ctx := context.Background()

	own, err := f.svc.ListForActor(ctx, f.citizen, ListFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	deptWide, err := f.svc.ListForActor(ctx, f.head, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, deptWide, 2)

	all, err := f.svc.ListForActor(ctx, f.admin, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Assigning the other request away hides it from the plain officer.
	require.NoError(t, f.svc.Assign(ctx, f.head, otherReq.ID, f.head.ID))
	visible, err := f.svc.ListForActor(ctx, f.officer, ListFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)
}

func TestGetDetailVisibility(t *testing.T) {
	f := newFixture(t, "150.00")
	request := f.submit(t, 1)
	ctx := context.Background()

	detail, err := f.svc.GetDetail(ctx, f.citizen, request.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Documents, 1)
	require.NotNil(t, detail.Payment)
	require.Len(t, detail.History, 1)
	assert.Equal(t, "submitted", detail.History[0].Action)

	other := f.st.addUser(domain.User{Name: "Other", Role: domain.RoleCitizen})
	_, err = f.svc.GetDetail(ctx, domain.ActorFor(&other), request.ID)
	assert.Equal(t, "ACCESS_DENIED", errorCode(t, err))
}

func TestStatsForReviewer(t *testing.T) {
	f := newFixture(t, "0")
	first := f.submit(t, 0)
	second := f.submit(t, 0)
	ctx := context.Background()

	require.NoError(t, f.svc.Assign(ctx, f.head, first.ID, f.officer.ID))
	require.NoError(t, f.svc.Assign(ctx, f.head, second.ID, f.officer.ID))
	require.NoError(t, f.svc.Decide(ctx, f.officer, first.ID, domain.RequestStatusApproved, ""))

	stats, err := f.svc.StatsForReviewer(ctx, f.officer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAssigned)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(1), stats.Approved)
}
