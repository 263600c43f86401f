package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/manumittu/unitracker/core/user"
	inmemrepos "github.com/manumittu/unitracker/storage/database/inmem"
)

func setup(t *testing.T) (*commandLine, *inmemrepos.UserRepository) {
	repo := inmemrepos.NewUserRepository()
	migrateFunc = func(db *sqlx.DB) error { return nil }
	return &commandLine{usrRepo: repo}, repo
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func runCLI(t *testing.T, cli *commandLine, tt cliTest) error {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(tt.pwd), nil
	}
	return cli.run(append([]string{"admin"}, tt.args...))
}

func Test_commandLine_usage(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate", args: []string{"migrate"}},
		{name: "createadmin: no args", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "createadmin: no password", args: []string{"createadmin", "-name", "Boss", "-email", "boss@test.cd"}, wantErr: errHelp},
		{name: "approveuser: no args", args: []string{"approveuser"}, wantErr: errHelp},
		{name: "resetpassword: no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, cli, tt); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli, repo := setup(t)
	ctx := context.Background()

	tt := cliTest{args: []string{"createadmin", "-name", "Boss", "-email", "Boss@test.cd"}, pwd: "secret1"}
	if err := runCLI(t, cli, tt); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	usr, err := repo.GetUserByEmail(ctx, "boss@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if usr.Role != user.RoleAdmin || usr.Status != user.StatusApproved {
		t.Errorf("created user = %+v; want an approved admin", usr)
	}
	if err := usr.CheckPassword("secret1"); err != nil {
		t.Error("password was not set")
	}

	// running again promotes instead of duplicating
	if err := runCLI(t, cli, tt); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	users, _ := repo.FilterUsers(ctx, user.QueryFilter{})
	if len(users) != 1 {
		t.Errorf("got %d users; want 1", len(users))
	}
}

func Test_commandLine_approveUser(t *testing.T) {
	cli, repo := setup(t)
	ctx := context.Background()

	usr := user.User{Name: "Awe", Email: "awe@test.cd", Role: user.RoleStudent, Status: user.StatusPending}
	usr, err := repo.CreateUser(ctx, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []cliTest{
		{name: "user not found", args: []string{"approveuser", "-email", "lol@test.cd"}, wantErr: user.ErrNotFound},
		{name: "approve", args: []string{"approveuser", "-email", usr.Email}},
		{name: "reject", args: []string{"approveuser", "-email", usr.Email, "-reject"}},
	}
	wantStatuses := map[string]string{"approve": user.StatusApproved, "reject": user.StatusRejected}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, cli, tt)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if want, ok := wantStatuses[tt.name]; ok {
				refreshed, err := repo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed: %v", err)
				}
				if refreshed.Status != want {
					t.Errorf("status = %q; want %q", refreshed.Status, want)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, repo := setup(t)
	ctx := context.Background()

	usr := user.User{Name: "Awe", Email: "awe@test.cd", Role: user.RoleStudent, Status: user.StatusApproved}
	if err := usr.SetPassword("oldpass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := repo.CreateUser(ctx, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []cliTest{
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "newpass", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "newpass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, cli, tt)
			if err != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			refreshed, err := repo.GetUserByID(context.Background(), usr.ID)
			if err != nil {
				t.Fatalf("GetUserByID() failed: %v", err)
			}
			if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
				t.Error("failed to update new password")
			}
			if err := refreshed.CheckPassword("newpass"); err != nil {
				t.Error("new password does not verify")
			}
		})
	}
}
