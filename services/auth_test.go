package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"hackportal/models"
)

func TestRegisterCreatesTeamWithFallbackName(t *testing.T) {
	t.Parallel()
	svc, db := newTestServices(t)

	user, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "  ", ""))

	if team.Name != "Team-Ada" {
		t.Fatalf("team.Name = %q, want %q", team.Name, "Team-Ada")
	}
	if !models.ValidInviteCode(team.InviteCode) {
		t.Fatalf("invite code %q is not 6 uppercase alphanumerics", team.InviteCode)
	}
	if user.TeamID == nil || *user.TeamID != team.ID {
		t.Fatalf("user.TeamID = %v, want %d", user.TeamID, team.ID)
	}

	var stored models.Team
	if err := db.First(&stored, team.ID).Error; err != nil {
		t.Fatalf("load team: %v", err)
	}
	if stored.CreatedBy == nil || *stored.CreatedBy != user.ID {
		t.Fatalf("team.CreatedBy = %v, want %d", stored.CreatedBy, user.ID)
	}
	if stored.InviteCode != team.InviteCode {
		t.Fatalf("stored invite code = %q, want %q", stored.InviteCode, team.InviteCode)
	}
}

func TestRegisterKeepsGivenTeamName(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)

	_, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "Engines", ""))
	if team.Name != "Engines" {
		t.Fatalf("team.Name = %q, want %q", team.Name, "Engines")
	}
}

func TestRegisterJoinsExistingTeam(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	// Codes are accepted regardless of case and surrounding spaces.
	code := " " + strings.ToLower(team.InviteCode) + " "
	grace, joined := mustRegister(t, svc, registerInput("Grace Hopper", "grace@example.com", TeamChoiceJoin, "", code))

	if joined.ID != team.ID {
		t.Fatalf("joined team %d, want %d", joined.ID, team.ID)
	}
	if grace.TeamID == nil || *grace.TeamID != team.ID {
		t.Fatalf("grace.TeamID = %v, want %d", grace.TeamID, team.ID)
	}

	members, err := svc.Users.FindByTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("FindByTeam: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("len(members) = %d, want 2", len(members))
	}
	teams, err := svc.Teams.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if teams != 1 {
		t.Fatalf("teams = %d, want 1", teams)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)
	ctx := context.Background()

	mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	_, _, err := svc.Auth.Register(ctx, registerInput("Ada Again", " ADA@example.com", TeamChoiceCreate, "", ""))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}

	users, _ := svc.Users.Count(ctx)
	teams, _ := svc.Teams.Count(ctx)
	if users != 1 || teams != 1 {
		t.Fatalf("users = %d, teams = %d, want 1 and 1", users, teams)
	}
}

// insertBeforeCreate runs insert once, on the same connection, right before
// the first INSERT whose destination matches.
func insertBeforeCreate(t *testing.T, db *gorm.DB, match func(dest interface{}) bool, insert func(tx *gorm.DB) error) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_conflict", func(tx *gorm.DB) {
		if fired || !match(tx.Statement.Dest) {
			return
		}
		fired = true
		if err := insert(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			t.Errorf("insert conflicting row: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestRegisterRetriesInviteCodeTakenAtInsert(t *testing.T) {
	t.Parallel()
	svc, db := newTestServices(t)
	ctx := context.Background()
	svc.Teams.newCode = sequence("AAAAAA", "BBBBBB")

	insertBeforeCreate(t, db, func(dest interface{}) bool {
		_, ok := dest.(*models.Team)
		return ok
	}, func(tx *gorm.DB) error {
		return tx.Create(&models.Team{Name: "Rival", InviteCode: "AAAAAA"}).Error
	})

	user, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	if team.InviteCode != "BBBBBB" {
		t.Fatalf("team.InviteCode = %q, want %q", team.InviteCode, "BBBBBB")
	}
	if user.TeamID == nil || *user.TeamID != team.ID {
		t.Fatalf("user.TeamID = %v, want %d", user.TeamID, team.ID)
	}

	teams, err := svc.Teams.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if teams != 1 {
		t.Fatalf("teams = %d, want 1", teams)
	}
	users, _ := svc.Users.Count(ctx)
	if users != 1 {
		t.Fatalf("users = %d, want 1", users)
	}
	if _, err := svc.Teams.FindByInviteCode(ctx, "BBBBBB"); err != nil {
		t.Fatalf("FindByInviteCode(BBBBBB): %v", err)
	}
}

func TestRegisterJoinEmailTakenAtInsert(t *testing.T) {
	t.Parallel()
	svc, db := newTestServices(t)
	ctx := context.Background()

	_, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	insertBeforeCreate(t, db, func(dest interface{}) bool {
		_, ok := dest.(*models.User)
		return ok
	}, func(tx *gorm.DB) error {
		return tx.Create(&models.User{
			Name:         "Grace Rival",
			Email:        "grace@example.com",
			Phone:        "5550199",
			College:      "Elsewhere",
			PasswordHash: "x",
		}).Error
	})

	_, _, err := svc.Auth.Register(ctx, registerInput("Grace Hopper", "grace@example.com", TeamChoiceJoin, "", team.InviteCode))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}

	members, err := svc.Users.FindByTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("FindByTeam: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len(members) = %d, want 1", len(members))
	}
}

func TestRegisterInvalidInviteCode(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)
	ctx := context.Background()

	mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	for _, code := range []string{"", "ZZZ", "ZZZZZZ", "ab-123"} {
		_, _, err := svc.Auth.Register(ctx, registerInput("Grace Hopper", "grace@example.com", TeamChoiceJoin, "", code))
		if !errors.Is(err, ErrInvalidInviteCode) {
			t.Fatalf("code %q: err = %v, want ErrInvalidInviteCode", code, err)
		}
	}

	if _, err := svc.Users.FindByEmail(ctx, "grace@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByEmail err = %v, want ErrNotFound", err)
	}
}

func TestRegisterRejectsUnknownChoice(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)

	_, _, err := svc.Auth.Register(context.Background(), registerInput("Ada Lovelace", "ada@example.com", "", "", ""))
	if err == nil {
		t.Fatal("expected an error for an empty team choice")
	}
	if n, _ := svc.Users.Count(context.Background()); n != 0 {
		t.Fatalf("users = %d, want 0", n)
	}
}

type recordingNotifier struct {
	err   error
	calls []string
}

func (n *recordingNotifier) SendWelcome(_ context.Context, user *models.User, team *models.Team) error {
	n.calls = append(n.calls, user.Email+":"+team.InviteCode)
	return n.err
}

func TestRegisterNotifiesBestEffort(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := New(db, AdminCredentials{}, notifier, testLog())

	_, team := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	if len(notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(notifier.calls))
	}
	if want := "ada@example.com:" + team.InviteCode; notifier.calls[0] != want {
		t.Fatalf("notifier call = %q, want %q", notifier.calls[0], want)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)
	ctx := context.Background()

	ada, _ := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))

	user, err := svc.Auth.Login(ctx, "Ada@Example.com", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != ada.ID {
		t.Fatalf("user.ID = %d, want %d", user.ID, ada.ID)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "ada@example.com", password: "password2"},
		{name: "unknown email", email: "nobody@example.com", password: "password1"},
		{name: "empty password", email: "ada@example.com", password: ""},
	}
	for _, tt := range tests {
		if _, err := svc.Auth.Login(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v, want ErrInvalidCredentials", tt.name, err)
		}
	}
}

func TestPasswordIsStoredHashed(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)

	user, _ := mustRegister(t, svc, registerInput("Ada Lovelace", "ada@example.com", TeamChoiceCreate, "", ""))
	if user.PasswordHash == "" || user.PasswordHash == "password1" {
		t.Fatalf("PasswordHash = %q, want a bcrypt hash", user.PasswordHash)
	}
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestServices(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "exact", email: "admin@hack.dev", password: "s3cret-admin"},
		{name: "email case", email: " ADMIN@hack.dev", password: "s3cret-admin"},
		{name: "wrong password", email: "admin@hack.dev", password: "nope", wantErr: true},
		{name: "wrong email", email: "root@hack.dev", password: "s3cret-admin", wantErr: true},
		{name: "empty", wantErr: true},
	}
	for _, tt := range tests {
		err := svc.Auth.AdminLogin(tt.email, tt.password)
		if tt.wantErr && !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v, want ErrInvalidCredentials", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("%s: err = %v, want nil", tt.name, err)
		}
	}
}

func TestAdminLoginWithoutConfiguredPassword(t *testing.T) {
	t.Parallel()
	auth := NewAuthService(nil, nil, nil, AdminCredentials{Email: "admin@hack.dev"}, nil, testLog())

	if err := auth.AdminLogin("admin@hack.dev", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
