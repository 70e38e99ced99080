package service

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"skillsphere/internal/domain"
	"skillsphere/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, taken := m.usersByEmail[user.Email]; taken {
		return &pgconn.PgError{Code: pgUniqueViolation}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	if _, ok := m.usersByID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, user.Email)
	delete(m.usersByID, id)
	return nil
}

func (m *mockUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.usersByID[id]
	return ok, nil
}

type mockBehaviorRepo struct {
	vectors map[string]domain.BehaviorVector
}

func newMockBehaviorRepo() *mockBehaviorRepo {
	return &mockBehaviorRepo{vectors: make(map[string]domain.BehaviorVector)}
}

func (m *mockBehaviorRepo) Upsert(_ context.Context, vector domain.BehaviorVector) (bool, error) {
	_, existed := m.vectors[vector.UserID]
	m.vectors[vector.UserID] = vector
	return !existed, nil
}

func (m *mockBehaviorRepo) GetByUserID(_ context.Context, userID string) (domain.BehaviorVector, error) {
	vector, ok := m.vectors[userID]
	if !ok {
		return domain.BehaviorVector{}, pgx.ErrNoRows
	}
	return vector, nil
}

func (m *mockBehaviorRepo) List(_ context.Context, filter map[string]string, offset, limit int) ([]domain.BehaviorVector, int, error) {
	all := m.sorted()
	filtered := make([]domain.BehaviorVector, 0, len(all))
	for _, v := range all {
		match := true
		for trait, value := range filter {
			if v.Trait(trait) != value {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, v)
		}
	}
	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func (m *mockBehaviorRepo) ListOthers(_ context.Context, userID string) ([]domain.BehaviorVector, error) {
	others := make([]domain.BehaviorVector, 0, len(m.vectors))
	for _, v := range m.sorted() {
		if v.UserID != userID {
			others = append(others, v)
		}
	}
	return others, nil
}

func (m *mockBehaviorRepo) Delete(_ context.Context, userID string) (bool, error) {
	_, ok := m.vectors[userID]
	delete(m.vectors, userID)
	return ok, nil
}

func (m *mockBehaviorRepo) Count(_ context.Context) (int, error) {
	return len(m.vectors), nil
}

func (m *mockBehaviorRepo) CountByTrait(_ context.Context, trait string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, v := range m.vectors {
		counts[v.Trait(trait)]++
	}
	return counts, nil
}

func (m *mockBehaviorRepo) sorted() []domain.BehaviorVector {
	all := make([]domain.BehaviorVector, 0, len(m.vectors))
	for _, v := range m.vectors {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all
}

type mockSkillVectorRepo struct {
	vectors map[string]domain.SkillVector
}

func newMockSkillVectorRepo() *mockSkillVectorRepo {
	return &mockSkillVectorRepo{vectors: make(map[string]domain.SkillVector)}
}

func (m *mockSkillVectorRepo) Create(_ context.Context, vector domain.SkillVector) error {
	if _, ok := m.vectors[vector.UserID]; ok {
		return &pgconn.PgError{Code: pgUniqueViolation}
	}
	m.vectors[vector.UserID] = vector
	return nil
}

func (m *mockSkillVectorRepo) GetByUserID(_ context.Context, userID string) (domain.SkillVector, error) {
	vector, ok := m.vectors[userID]
	if !ok {
		return domain.SkillVector{}, pgx.ErrNoRows
	}
	return vector, nil
}

func (m *mockSkillVectorRepo) Update(_ context.Context, vector domain.SkillVector) error {
	if _, ok := m.vectors[vector.UserID]; !ok {
		return pgx.ErrNoRows
	}
	m.vectors[vector.UserID] = vector
	return nil
}

func (m *mockSkillVectorRepo) Delete(_ context.Context, userID string) (bool, error) {
	_, ok := m.vectors[userID]
	delete(m.vectors, userID)
	return ok, nil
}

func (m *mockSkillVectorRepo) List(_ context.Context, offset, limit int) ([]domain.SkillVector, int, error) {
	all := make([]domain.SkillVector, 0, len(m.vectors))
	for _, v := range m.vectors {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockSkillVectorRepo) FindNearest(_ context.Context, userID string, k int) ([]domain.SkillVector, error) {
	if _, ok := m.vectors[userID]; !ok {
		return nil, pgx.ErrNoRows
	}
	others := make([]domain.SkillVector, 0, len(m.vectors))
	for id, v := range m.vectors {
		if id != userID {
			others = append(others, v)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].UserID < others[j].UserID })
	if len(others) > k {
		others = others[:k]
	}
	return others, nil
}

type mockSkillDNARepo struct {
	entries map[string]map[string]domain.SkillDNAEntry
	history []domain.SkillAssessmentRecord
}

func newMockSkillDNARepo() *mockSkillDNARepo {
	return &mockSkillDNARepo{entries: make(map[string]map[string]domain.SkillDNAEntry)}
}

func (m *mockSkillDNARepo) Upsert(_ context.Context, entry domain.SkillDNAEntry) (domain.SkillDNAEntry, error) {
	byUser, ok := m.entries[entry.UserID]
	if !ok {
		byUser = make(map[string]domain.SkillDNAEntry)
		m.entries[entry.UserID] = byUser
	}
	if prev, ok := byUser[entry.SkillName]; ok {
		entry.GrowthRate = entry.Level - prev.Level
	} else {
		entry.GrowthRate = 0
	}
	byUser[entry.SkillName] = entry
	return entry, nil
}

func (m *mockSkillDNARepo) ListByUser(_ context.Context, userID string) ([]domain.SkillDNAEntry, error) {
	byUser := m.entries[userID]
	entries := make([]domain.SkillDNAEntry, 0, len(byUser))
	for _, e := range byUser {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SkillName < entries[j].SkillName })
	return entries, nil
}

func (m *mockSkillDNARepo) AppendHistory(_ context.Context, record domain.SkillAssessmentRecord) error {
	m.history = append(m.history, record)
	return nil
}

func (m *mockSkillDNARepo) ListHistory(_ context.Context, userID, skillName string) ([]domain.SkillAssessmentRecord, error) {
	records := make([]domain.SkillAssessmentRecord, 0)
	for _, r := range m.history {
		if r.UserID == userID && r.SkillName == skillName {
			records = append(records, r)
		}
	}
	return records, nil
}

type mockMessageRepo struct {
	messages []domain.Message
	failNext error
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.Message) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByRoom(_ context.Context, roomID string, offset, limit int) ([]domain.Message, error) {
	inRoom := make([]domain.Message, 0)
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			inRoom = append(inRoom, msg)
		}
	}
	if offset >= len(inRoom) {
		return nil, nil
	}
	end := offset + limit
	if end > len(inRoom) {
		end = len(inRoom)
	}
	return inRoom[offset:end], nil
}

func (m *mockMessageRepo) ListRooms(_ context.Context, userID string) ([]domain.ChatRoom, error) {
	seen := make(map[string]bool)
	rooms := make([]domain.ChatRoom, 0)
	for _, msg := range m.messages {
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		if seen[msg.RoomID] {
			continue
		}
		seen[msg.RoomID] = true
		peer := msg.SenderID
		if peer == userID {
			peer = msg.ReceiverID
		}
		rooms = append(rooms, domain.ChatRoom{RoomID: msg.RoomID, PeerID: peer})
	}
	return rooms, nil
}

func (m *mockMessageRepo) MarkRead(_ context.Context, roomID, receiverID string) (int, error) {
	updated := 0
	for i, msg := range m.messages {
		if msg.RoomID == roomID && msg.ReceiverID == receiverID && !msg.IsRead {
			m.messages[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

type mockAssessmentRepo struct {
	assessments map[string]domain.Assessment
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{assessments: make(map[string]domain.Assessment)}
}

func (m *mockAssessmentRepo) Create(_ context.Context, assessment domain.Assessment) error {
	m.assessments[assessment.ID] = assessment
	return nil
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id string) (domain.Assessment, error) {
	assessment, ok := m.assessments[id]
	if !ok {
		return domain.Assessment{}, pgx.ErrNoRows
	}
	return assessment, nil
}

func (m *mockAssessmentRepo) ListByUser(_ context.Context, userID string) ([]domain.Assessment, error) {
	list := make([]domain.Assessment, 0)
	for _, a := range m.assessments {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	return list, nil
}

func (m *mockAssessmentRepo) MarkProcessed(_ context.Context, id string, skills []domain.AssessedSkill, rawScore int) error {
	assessment, ok := m.assessments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	assessment.SkillsAssessed = skills
	assessment.RawScore = rawScore
	assessment.Processed = true
	m.assessments[id] = assessment
	return nil
}

type mockOpportunityRepo struct {
	opportunities map[string]domain.Opportunity
	compatibility map[string]domain.CompatibilityEntry
	applications  map[string]domain.Application
}

func newMockOpportunityRepo() *mockOpportunityRepo {
	return &mockOpportunityRepo{
		opportunities: make(map[string]domain.Opportunity),
		compatibility: make(map[string]domain.CompatibilityEntry),
		applications:  make(map[string]domain.Application),
	}
}

func compatKey(opportunityID, userID string) string {
	return opportunityID + "|" + userID
}

func (m *mockOpportunityRepo) Create(_ context.Context, opp domain.Opportunity) error {
	m.opportunities[opp.ID] = opp
	return nil
}

func (m *mockOpportunityRepo) GetByID(_ context.Context, id string) (domain.Opportunity, error) {
	opp, ok := m.opportunities[id]
	if !ok {
		return domain.Opportunity{}, pgx.ErrNoRows
	}
	return opp, nil
}

func (m *mockOpportunityRepo) List(_ context.Context, filter repository.OpportunityFilter, offset, limit int) ([]domain.Opportunity, int, error) {
	all := make([]domain.Opportunity, 0, len(m.opportunities))
	for _, o := range m.opportunities {
		if filter.RoleType != "" && o.RoleType != filter.RoleType {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockOpportunityRepo) Update(_ context.Context, opp domain.Opportunity) error {
	if _, ok := m.opportunities[opp.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.opportunities[opp.ID] = opp
	return nil
}

func (m *mockOpportunityRepo) Delete(_ context.Context, id string) (bool, error) {
	_, ok := m.opportunities[id]
	delete(m.opportunities, id)
	return ok, nil
}

func (m *mockOpportunityRepo) SetCompatibilityScore(_ context.Context, entry domain.CompatibilityEntry) error {
	m.compatibility[compatKey(entry.OpportunityID, entry.UserID)] = entry
	return nil
}

func (m *mockOpportunityRepo) GetCompatibilityScore(_ context.Context, opportunityID, userID string) (domain.CompatibilityEntry, error) {
	entry, ok := m.compatibility[compatKey(opportunityID, userID)]
	if !ok {
		return domain.CompatibilityEntry{}, pgx.ErrNoRows
	}
	return entry, nil
}

func (m *mockOpportunityRepo) ListRankedByCompatibility(_ context.Context, userID string, offset, limit int) ([]domain.Opportunity, []int, int, error) {
	type scored struct {
		opp   domain.Opportunity
		score int
	}
	ranked := make([]scored, 0)
	for _, entry := range m.compatibility {
		if entry.UserID != userID {
			continue
		}
		opp, ok := m.opportunities[entry.OpportunityID]
		if !ok {
			continue
		}
		ranked = append(ranked, scored{opp: opp, score: entry.Score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].opp.ID < ranked[j].opp.ID
	})
	total := len(ranked)
	if offset >= total {
		return nil, nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	opps := make([]domain.Opportunity, 0, end-offset)
	scores := make([]int, 0, end-offset)
	for _, r := range ranked[offset:end] {
		opps = append(opps, r.opp)
		scores = append(scores, r.score)
	}
	return opps, scores, total, nil
}

func (m *mockOpportunityRepo) AddApplication(_ context.Context, app domain.Application) error {
	for _, existing := range m.applications {
		if existing.OpportunityID == app.OpportunityID && existing.UserID == app.UserID {
			return &pgconn.PgError{Code: pgUniqueViolation}
		}
	}
	m.applications[app.ID] = app
	return nil
}

func (m *mockOpportunityRepo) GetApplication(_ context.Context, opportunityID, userID string) (domain.Application, error) {
	for _, app := range m.applications {
		if app.OpportunityID == opportunityID && app.UserID == userID {
			return app, nil
		}
	}
	return domain.Application{}, pgx.ErrNoRows
}

func (m *mockOpportunityRepo) GetApplicationByID(_ context.Context, applicationID string) (domain.Application, error) {
	app, ok := m.applications[applicationID]
	if !ok {
		return domain.Application{}, pgx.ErrNoRows
	}
	return app, nil
}

func (m *mockOpportunityRepo) ListApplications(_ context.Context, opportunityID string) ([]domain.Application, error) {
	apps := make([]domain.Application, 0)
	for _, app := range m.applications {
		if app.OpportunityID == opportunityID {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].MatchScore > apps[j].MatchScore })
	return apps, nil
}

func (m *mockOpportunityRepo) UpdateApplicationStatus(_ context.Context, applicationID, status string) error {
	app, ok := m.applications[applicationID]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	m.applications[applicationID] = app
	return nil
}
