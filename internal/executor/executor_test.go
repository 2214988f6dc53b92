package executor

import (
	"context"
	"os/exec"
	"testing"
)

// TestRealCommandExecutor_ExecuteCommand tests the ExecuteCommand method of the RealCommandExecutor.
func TestRealCommandExecutor_ExecuteCommand(t *testing.T) {
	type args struct {
		dir  string
		name string
		args []string
		env  []string
	}
	tests := []struct {
		name       string
		wantStdout string
		wantStderr string
		args       args
		wantErr    bool
	}{
		{
			name: "echo command without error",
			args: args{
				name: "echo",
				args: []string{"hello world"},
				env:  []string{},
			},
			wantStdout: "hello world\n",
			wantStderr: "",
			wantErr:    false,
		},
		{
			name: "echo command with env var",
			args: args{
				name: "bash",
				args: []string{"-c", "echo $TEST_VAR"},
				env:  []string{"TEST_VAR=hello"},
			},
			wantStdout: "hello\n",
			wantStderr: "",
			wantErr:    false,
		},
		{
			name: "runs in the given directory",
			args: args{
				dir:  "/",
				name: "pwd",
				args: []string{},
			},
			wantStdout: "/\n",
			wantStderr: "",
			wantErr:    false,
		},
		{
			name: "stderr and exit status",
			args: args{
				name: "bash",
				args: []string{"-c", "echo oops >&2; exit 3"},
				env:  []string{},
			},
			wantStdout: "",
			wantStderr: "oops\n",
			wantErr:    true,
		},
		{
			name: "non-existent command",
			args: args{
				name: "nonexistentcmd",
				args: []string{},
				env:  []string{},
			},
			wantStdout: "",
			wantStderr: "",
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCommandExecutor()
			gotStdout, gotStderr, err := r.ExecuteCommand(context.TODO(), tt.args.dir, tt.args.name, tt.args.args, tt.args.env)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExecuteCommand() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotStdout != tt.wantStdout {
				t.Errorf("ExecuteCommand() gotStdout = %v, want %v", gotStdout, tt.wantStdout)
			}
			if gotStderr != tt.wantStderr {
				t.Errorf("ExecuteCommand() gotStderr = %v, want %v", gotStderr, tt.wantStderr)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	r := NewCommandExecutor()

	code, ok := ExitCode(nil)
	if code != 0 || !ok {
		t.Errorf("ExitCode(nil) = %d, %v, want 0, true", code, ok)
	}

	_, _, err := r.ExecuteCommand(context.TODO(), "", "bash", []string{"-c", "exit 7"}, nil)
	code, ok = ExitCode(err)
	if code != 7 || !ok {
		t.Errorf("ExitCode() = %d, %v, want 7, true", code, ok)
	}

	_, _, err = r.ExecuteCommand(context.TODO(), "", "nonexistentcmd", nil, nil)
	if _, isExit := err.(*exec.ExitError); isExit {
		t.Fatalf("expected a start error, got exit error %v", err)
	}
	code, ok = ExitCode(err)
	if code != -1 || ok {
		t.Errorf("ExitCode() = %d, %v, want -1, false", code, ok)
	}
}
