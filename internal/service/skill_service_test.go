package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"skillsphere/internal/domain"
)

func newSkillService(users *mockUserRepo) (*SkillService, *mockSkillDNARepo) {
	dna := newMockSkillDNARepo()
	return NewSkillService(zap.NewNop(), newMockSkillVectorRepo(), dna, users), dna
}

func TestCreateVectorDuplicateConflicts(t *testing.T) {
	users := newMockUserRepo()
	svc, _ := newSkillService(users)
	seedUser(t, users, "u1")

	vector := domain.SkillVector{UserID: "u1", LogicalReasoning: 70, Creativity: 60, Communication: 50, Collaboration: 40}
	if _, err := svc.CreateVector(context.Background(), vector); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateVector(context.Background(), vector)
	if !errors.Is(err, ErrSkillVectorExists) {
		t.Fatalf("err = %v, want ErrSkillVectorExists", err)
	}
}

func TestCreateVectorRejectsOutOfRangeLevels(t *testing.T) {
	users := newMockUserRepo()
	svc, _ := newSkillService(users)
	seedUser(t, users, "u1")

	_, err := svc.CreateVector(context.Background(), domain.SkillVector{UserID: "u1", Creativity: 101})
	if !errors.Is(err, ErrSkillLevelOutOfRange) {
		t.Fatalf("err = %v, want ErrSkillLevelOutOfRange", err)
	}
	_, err = svc.CreateVector(context.Background(), domain.SkillVector{UserID: "u1", Collaboration: -1})
	if !errors.Is(err, ErrSkillLevelOutOfRange) {
		t.Fatalf("err = %v, want ErrSkillLevelOutOfRange", err)
	}
}

func TestUpdateVectorPatchesOnlyGivenAxes(t *testing.T) {
	users := newMockUserRepo()
	svc, _ := newSkillService(users)
	seedUser(t, users, "u1")

	_, err := svc.CreateVector(context.Background(), domain.SkillVector{
		UserID: "u1", LogicalReasoning: 70, Creativity: 60, Communication: 50, Collaboration: 40,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	creativity := 95
	vector, err := svc.UpdateVector(context.Background(), "u1", VectorPatch{Creativity: &creativity})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if vector.Creativity != 95 {
		t.Fatalf("creativity = %d, want 95", vector.Creativity)
	}
	if vector.LogicalReasoning != 70 || vector.Communication != 50 || vector.Collaboration != 40 {
		t.Fatalf("untouched axes changed: %+v", vector)
	}
}

func TestUpdateVectorMissingUser(t *testing.T) {
	svc, _ := newSkillService(newMockUserRepo())

	level := 50
	_, err := svc.UpdateVector(context.Background(), "ghost", VectorPatch{Creativity: &level})
	if !errors.Is(err, ErrSkillVectorNotFound) {
		t.Fatalf("err = %v, want ErrSkillVectorNotFound", err)
	}
}

func TestUpdateSkillDNATracksGrowth(t *testing.T) {
	users := newMockUserRepo()
	svc, dna := newSkillService(users)
	seedUser(t, users, "u1")

	first, err := svc.UpdateSkillDNA(context.Background(), "u1", map[string]int{"React": 60}, "")
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first[0].Level != 60 || first[0].GrowthRate != 0 {
		t.Fatalf("first entry = %+v, want level 60 growth 0", first[0])
	}

	second, err := svc.UpdateSkillDNA(context.Background(), "u1", map[string]int{"React": 75}, "skill")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second[0].Level != 75 || second[0].GrowthRate != 15 {
		t.Fatalf("second entry = %+v, want level 75 growth 15", second[0])
	}

	history, err := dna.ListHistory(context.Background(), "u1", "React")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history entries = %d, want 2", len(history))
	}
	if history[0].AssessmentType != "comprehensive" || history[1].AssessmentType != "skill" {
		t.Fatalf("assessment types = %q, %q", history[0].AssessmentType, history[1].AssessmentType)
	}
}

func TestUpdateSkillDNAReturnsEntriesSortedByName(t *testing.T) {
	users := newMockUserRepo()
	svc, _ := newSkillService(users)
	seedUser(t, users, "u1")

	entries, err := svc.UpdateSkillDNA(context.Background(), "u1", map[string]int{"Node": 40, "Go": 80, "React": 60}, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := []string{"Go", "Node", "React"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want 3", entries)
	}
	for i, name := range want {
		if entries[i].SkillName != name {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].SkillName, name)
		}
	}
}

func TestUpdateSkillDNARejectsOutOfRangeScore(t *testing.T) {
	users := newMockUserRepo()
	svc, _ := newSkillService(users)
	seedUser(t, users, "u1")

	_, err := svc.UpdateSkillDNA(context.Background(), "u1", map[string]int{"React": 120}, "")
	if !errors.Is(err, ErrSkillLevelOutOfRange) {
		t.Fatalf("err = %v, want ErrSkillLevelOutOfRange", err)
	}
}
