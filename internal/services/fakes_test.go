package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

// In-memory stores standing in for the pgx repositories.

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) add(user *models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.IsActive = true
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	clone := *user
	return f.add(&clone), nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email && user.Role == role {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) FindProfilesByIdentifier(ctx context.Context, identifier string) ([]models.User, error) {
	var byWhatsapp, byEmail []models.User
	for _, user := range f.users {
		if user.WhatsappNumber != nil && *user.WhatsappNumber == identifier {
			byWhatsapp = append(byWhatsapp, *user)
		}
		if user.Email == identifier {
			byEmail = append(byEmail, *user)
		}
	}
	profiles := byWhatsapp
	if len(profiles) == 0 {
		profiles = byEmail
	}
	sortByRole(profiles)
	return profiles, nil
}

func (f *fakeUserStore) FindProfilesByEmail(ctx context.Context, email string) ([]models.User, error) {
	var profiles []models.User
	for _, user := range f.users {
		if user.Email == email {
			profiles = append(profiles, *user)
		}
	}
	sortByRole(profiles)
	return profiles, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	var all []models.User
	for _, user := range f.users {
		all = append(all, *user)
	}
	return all, nil
}

func (f *fakeUserStore) FindManagers(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	var managers []models.User
	for _, user := range f.users {
		if user.Role == models.RoleManager && user.OwnerID != nil && *user.OwnerID == ownerID {
			managers = append(managers, *user)
		}
	}
	return managers, nil
}

func (f *fakeUserStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		if user.OwnerID != nil && *user.OwnerID == ownerID {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.WhatsappNumber != nil {
		user.WhatsappNumber = req.WhatsappNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return user, nil
}

func (f *fakeUserStore) UpdatePasswordForIdentity(ctx context.Context, email string, whatsappNumber *string, passwordHash string) error {
	for _, user := range f.users {
		if user.Email == email || (whatsappNumber != nil && user.WhatsappNumber != nil && *user.WhatsappNumber == *whatsappNumber) {
			user.PasswordHash = passwordHash
		}
	}
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (f *fakeUserStore) SetOwner(ctx context.Context, managerID, ownerID uuid.UUID) error {
	user, ok := f.users[managerID]
	if !ok {
		return repository.ErrNotFound
	}
	user.OwnerID = &ownerID
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) DeleteByEmailAndRole(ctx context.Context, email string, role models.Role) error {
	for id, user := range f.users {
		if user.Email == email && user.Role == role {
			delete(f.users, id)
		}
	}
	return nil
}

func sortByRole(profiles []models.User) {
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Role < profiles[j].Role
	})
}

// fakeRolesCache records role-cache traffic and queue pushes.
type fakeRolesCache struct {
	roles   map[string]string
	values  map[string]string
	queues  map[string][][]byte
	dropped []string
}

func newFakeRolesCache() *fakeRolesCache {
	return &fakeRolesCache{
		roles:  make(map[string]string),
		values: make(map[string]string),
		queues: make(map[string][][]byte),
	}
}

func (f *fakeRolesCache) GetAvailableRoles(ctx context.Context, identifier string) (string, error) {
	roles, ok := f.roles[identifier]
	if !ok {
		return "", repository.ErrNotFound
	}
	return roles, nil
}

func (f *fakeRolesCache) SetAvailableRoles(ctx context.Context, identifier, roles string) error {
	f.roles[identifier] = roles
	return nil
}

func (f *fakeRolesCache) InvalidateAvailableRoles(ctx context.Context, identifier string) error {
	delete(f.roles, identifier)
	f.dropped = append(f.dropped, identifier)
	return nil
}

func (f *fakeRolesCache) Enqueue(ctx context.Context, queue string, payload []byte) error {
	f.queues[queue] = append(f.queues[queue], payload)
	return nil
}

func (f *fakeRolesCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return value, nil
}

func (f *fakeRolesCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	return nil
}

// fakePropertyStore keeps properties and units in memory with the same
// scoping rules as the SQL queries.
type fakePropertyStore struct {
	properties map[uuid.UUID]*models.Property
	units      map[uuid.UUID]*models.Unit
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{
		properties: make(map[uuid.UUID]*models.Property),
		units:      make(map[uuid.UUID]*models.Unit),
	}
}

func (f *fakePropertyStore) visible(p *models.Property, scope models.Scope) bool {
	switch scope.Role {
	case models.RoleOwner:
		return p.OwnerID == scope.ProfileID
	case models.RoleManager:
		return p.ManagerID != nil && *p.ManagerID == scope.ProfileID
	default:
		return false
	}
}

func (f *fakePropertyStore) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreatePropertyRequest) (*models.Property, error) {
	property := &models.Property{
		ID:          uuid.New(),
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		TotalUnits:  req.TotalUnits,
		Status:      models.PropertyStatusActive,
		OwnerID:     ownerID,
		ManagerID:   req.ManagerID,
	}
	f.properties[property.ID] = property
	return property, nil
}

func (f *fakePropertyStore) List(ctx context.Context, scope models.Scope) ([]models.Property, error) {
	var out []models.Property
	for _, property := range f.properties {
		if f.visible(property, scope) {
			clone := *property
			clone.Units = f.unitsOf(property.ID)
			out = append(out, clone)
		}
	}
	return out, nil
}

func (f *fakePropertyStore) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Property, error) {
	property, ok := f.properties[id]
	if !ok || !f.visible(property, scope) {
		return nil, repository.ErrNotFound
	}
	clone := *property
	clone.Units = f.unitsOf(id)
	return &clone, nil
}

func (f *fakePropertyStore) Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdatePropertyRequest) (*models.Property, error) {
	property, ok := f.properties[id]
	if !ok || !f.visible(property, scope) {
		return nil, repository.ErrNotFound
	}
	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Status != nil {
		property.Status = *req.Status
	}
	if req.ManagerID != nil {
		property.ManagerID = req.ManagerID
	}
	return property, nil
}

func (f *fakePropertyStore) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	property, ok := f.properties[id]
	if !ok {
		return repository.ErrNotFound
	}
	property.PhotoURL = &url
	return nil
}

func (f *fakePropertyStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	property, ok := f.properties[id]
	if !ok || property.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyStore) CreateUnit(ctx context.Context, propertyID uuid.UUID, req *models.CreateUnitRequest) (*models.Unit, error) {
	unit := &models.Unit{
		ID:          uuid.New(),
		PropertyID:  propertyID,
		UnitNumber:  req.UnitNumber,
		RentAmount:  req.RentAmount,
		Description: req.Description,
	}
	f.units[unit.ID] = unit
	return unit, nil
}

func (f *fakePropertyStore) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	return f.unitsOf(propertyID), nil
}

func (f *fakePropertyStore) ListVacantUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	var vacant []models.Unit
	for _, unit := range f.unitsOf(propertyID) {
		if !unit.IsOccupied {
			vacant = append(vacant, unit)
		}
	}
	return vacant, nil
}

func (f *fakePropertyStore) GetUnit(ctx context.Context, unitID uuid.UUID, scope models.Scope) (*models.Unit, error) {
	unit, ok := f.units[unitID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	property, ok := f.properties[unit.PropertyID]
	if !ok || !f.visible(property, scope) {
		return nil, repository.ErrNotFound
	}
	return unit, nil
}

func (f *fakePropertyStore) unitsOf(propertyID uuid.UUID) []models.Unit {
	var units []models.Unit
	for _, unit := range f.units {
		if unit.PropertyID == propertyID {
			units = append(units, *unit)
		}
	}
	return units
}

// fakeLeaseStore mimics the conditional unit claim on create.
type fakeLeaseStore struct {
	leases     map[uuid.UUID]*models.Lease
	properties *fakePropertyStore
}

func newFakeLeaseStore(properties *fakePropertyStore) *fakeLeaseStore {
	return &fakeLeaseStore{
		leases:     make(map[uuid.UUID]*models.Lease),
		properties: properties,
	}
}

func (f *fakeLeaseStore) Create(ctx context.Context, req *models.CreateLeaseRequest) (*models.Lease, error) {
	unit, ok := f.properties.units[req.UnitID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if unit.IsOccupied {
		return nil, repository.ErrConflict
	}
	unit.IsOccupied = true

	dueDay := req.PaymentDueDay
	if dueDay == 0 {
		dueDay = 15
	}
	lease := &models.Lease{
		ID:             uuid.New(),
		UserID:         req.UserID,
		UnitID:         req.UnitID,
		LeaseStartDate: req.LeaseStartDate,
		LeaseEndDate:   req.LeaseEndDate,
		RentAmount:     req.RentAmount,
		PaymentDueDay:  dueDay,
		Status:         models.LeaseStatusActive,
	}
	f.leases[lease.ID] = lease
	return lease, nil
}

func (f *fakeLeaseStore) visible(lease *models.Lease, scope models.Scope) bool {
	if scope.Role == models.RoleTenant {
		return lease.UserID == scope.ProfileID
	}
	unit, ok := f.properties.units[lease.UnitID]
	if !ok {
		return false
	}
	property, ok := f.properties.properties[unit.PropertyID]
	if !ok {
		return false
	}
	return f.properties.visible(property, scope)
}

func (f *fakeLeaseStore) List(ctx context.Context, scope models.Scope) ([]models.Lease, error) {
	var out []models.Lease
	for _, lease := range f.leases {
		if f.visible(lease, scope) {
			out = append(out, *lease)
		}
	}
	return out, nil
}

func (f *fakeLeaseStore) ListByStatus(ctx context.Context, status models.LeaseStatus, scope models.Scope) ([]models.Lease, error) {
	all, _ := f.List(ctx, scope)
	var out []models.Lease
	for _, lease := range all {
		if lease.Status == status {
			out = append(out, lease)
		}
	}
	return out, nil
}

func (f *fakeLeaseStore) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Lease, error) {
	lease, ok := f.leases[id]
	if !ok || !f.visible(lease, scope) {
		return nil, repository.ErrNotFound
	}
	clone := *lease
	return &clone, nil
}

func (f *fakeLeaseStore) Update(ctx context.Context, id uuid.UUID, req *models.UpdateLeaseRequest) (*models.Lease, error) {
	lease, ok := f.leases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.RentAmount != nil {
		lease.RentAmount = *req.RentAmount
	}
	if req.Status != nil {
		lease.Status = *req.Status
	}
	if req.PaymentDueDay != nil {
		lease.PaymentDueDay = *req.PaymentDueDay
	}
	return lease, nil
}

func (f *fakeLeaseStore) Delete(ctx context.Context, id uuid.UUID, unitID uuid.UUID) error {
	if _, ok := f.leases[id]; !ok {
		return repository.ErrNotFound
	}
	if unit, ok := f.properties.units[unitID]; ok {
		unit.IsOccupied = false
	}
	delete(f.leases, id)
	return nil
}

// fakePaymentStore resolves scope through the lease store, like the joined
// SQL queries do.
type fakePaymentStore struct {
	payments map[uuid.UUID]*models.Payment
	leases   *fakeLeaseStore
}

func newFakePaymentStore(leases *fakeLeaseStore) *fakePaymentStore {
	return &fakePaymentStore{
		payments: make(map[uuid.UUID]*models.Payment),
		leases:   leases,
	}
}

func (f *fakePaymentStore) visible(payment *models.Payment, scope models.Scope) bool {
	if scope.Role == models.RoleTenant {
		return payment.TenantID == scope.ProfileID
	}
	lease, ok := f.leases.leases[payment.LeaseID]
	if !ok {
		return false
	}
	return f.leases.visible(lease, scope)
}

func (f *fakePaymentStore) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payment := &models.Payment{
		ID:       uuid.New(),
		TenantID: tenantID,
		LeaseID:  req.LeaseID,
		Amount:   req.Amount,
		DueDate:  req.DueDate,
		Status:   models.PaymentStatusPending,
	}
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakePaymentStore) List(ctx context.Context, scope models.Scope) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range f.payments {
		if f.visible(payment, scope) {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListByStatus(ctx context.Context, status models.PaymentStatus, scope models.Scope) ([]models.Payment, error) {
	all, _ := f.List(ctx, scope)
	var out []models.Payment
	for _, payment := range all {
		if payment.Status == status {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListByDateRange(ctx context.Context, start, end time.Time, scope models.Scope) ([]models.Payment, error) {
	all, _ := f.List(ctx, scope)
	var out []models.Payment
	for _, payment := range all {
		if !payment.DueDate.Before(start) && !payment.DueDate.After(end) {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Payment, error) {
	payment, ok := f.payments[id]
	if !ok || !f.visible(payment, scope) {
		return nil, repository.ErrNotFound
	}
	clone := *payment
	return &clone, nil
}

func (f *fakePaymentStore) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.DueDate != nil {
		payment.DueDate = *req.DueDate
	}
	if req.Status != nil {
		payment.Status = *req.Status
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}
	return payment, nil
}

func (f *fakePaymentStore) MarkProcessed(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string, transactionID, notes *string) (*models.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	now := time.Now()
	payment.Status = status
	payment.PaidDate = &now
	payment.PaymentMethod = &method
	payment.TransactionID = transactionID
	payment.Notes = notes
	return payment, nil
}

func (f *fakePaymentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.payments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentStore) ExistsForLeaseInRange(ctx context.Context, leaseID uuid.UUID, start, end time.Time) (bool, error) {
	for _, payment := range f.payments {
		if payment.LeaseID == leaseID && !payment.DueDate.Before(start) && payment.DueDate.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationStore struct {
	notifications map[uuid.UUID]*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	clone := *n
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	f.notifications[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (f *fakeNotificationStore) MarkStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus) error {
	n, ok := f.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Status = status
	if status == models.NotificationStatusSent {
		now := time.Now()
		n.SentAt = &now
	}
	return nil
}

func (f *fakeNotificationStore) ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.SentBy == senderID {
			out = append(out, *n)
		}
	}
	return out, nil
}
