package importer

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/parser"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedCoach(t *testing.T, st *store.Store, name string) *model.User {
	t.Helper()
	id, err := st.CreateUser(name, false, true, false, false)
	if err != nil {
		t.Fatalf("failed to seed coach %q: %v", name, err)
	}
	u, err := st.GetUserByID(id)
	if err != nil {
		t.Fatalf("failed to load coach %q: %v", name, err)
	}
	return u
}

func seedLead(t *testing.T, st *store.Store, name string) *model.User {
	t.Helper()
	id, err := st.CreateUser(name, false, false, true, false)
	if err != nil {
		t.Fatalf("failed to seed lead %q: %v", name, err)
	}
	u, err := st.GetUserByID(id)
	if err != nil {
		t.Fatalf("failed to load lead %q: %v", name, err)
	}
	return u
}

func boolRef(b bool) *bool {
	return &b
}

// oneCaseEngineer builds a parsed engineer with a single Q1 case.
func oneCaseEngineer(name, coach, month string, caseNumber int) model.ParsedEngineer {
	return model.ParsedEngineer{
		Name:      name,
		CoachName: coach,
		Evaluations: []model.ParsedEvaluation{{
			Quarter: "Q1",
			Cases: []model.ParsedCase{{
				CaseNumber: caseNumber,
				Quarter:    "Q1",
				Month:      month,
				Parameters: map[string]*bool{
					"KB Potential":   boolRef(true),
					"Article Linked": boolRef(false),
				},
			}},
		}},
	}
}

func workbookResult(engineers []model.ParsedEngineer, detectedCoach string) *parser.WorkbookResult {
	total := 0
	for _, e := range engineers {
		for _, ev := range e.Evaluations {
			total += len(ev.Cases)
		}
	}
	return &parser.WorkbookResult{
		Engineers:     engineers,
		DetectedCoach: detectedCoach,
		TotalCases:    total,
		Quarters:      []string{"Q1"},
	}
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
