package definition

import (
	"testing"
	"time"
)

func argsWith(overrides map[int]string) []string {
	n := minArgCount + 1
	toks := make([]string, n)
	for i := range toks {
		toks[i] = emptySentinel
	}
	for i, v := range overrides {
		toks[i] = v
	}
	return toks
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(*testing.T, *ServiceDefinition)
	}{
		{
			name:    "empty executable path fails",
			args:    argsWith(nil),
			wantErr: true,
		},
		{
			name: "minimal valid definition applies defaults",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.RotationSizeBytes != DefaultRotationSizeBytes {
					t.Errorf("RotationSizeBytes = %d, want default %d", d.RotationSizeBytes, DefaultRotationSizeBytes)
				}
				if d.HeartbeatInterval != DefaultHeartbeatInterval {
					t.Errorf("HeartbeatInterval = %v, want default %v", d.HeartbeatInterval, DefaultHeartbeatInterval)
				}
				if d.MaxFailedChecks != DefaultMaxFailedChecks {
					t.Errorf("MaxFailedChecks = %d, want default %d", d.MaxFailedChecks, DefaultMaxFailedChecks)
				}
				if d.Priority != PriorityNormal {
					t.Errorf("Priority = %v, want Normal", d.Priority)
				}
				if d.RecoveryAction != RecoveryNone {
					t.Errorf("RecoveryAction = %v, want None", d.RecoveryAction)
				}
				if !d.RunAsLocalSystem {
					t.Error("RunAsLocalSystem = false, want true default")
				}
			},
		},
		{
			name: "case-insensitive enum parsing",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
				posPriority:       "abovenormal",
				posRecoveryAction: "RESTARTSERVICE",
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.Priority != PriorityAboveNormal {
					t.Errorf("Priority = %v, want AboveNormal", d.Priority)
				}
				if d.RecoveryAction != RecoveryRestartService {
					t.Errorf("RecoveryAction = %v, want RestartService", d.RecoveryAction)
				}
			},
		},
		{
			name: "unparseable numeric silently defaults",
			args: argsWith(map[int]string{
				posExecutablePath:           `C:\svc\app.exe`,
				posHeartbeatIntervalSeconds: "not-a-number",
				posMaxFailedChecks:          "-1",
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.HeartbeatInterval != DefaultHeartbeatInterval {
					t.Errorf("HeartbeatInterval = %v, want default on parse failure", d.HeartbeatInterval)
				}
				if d.MaxFailedChecks != DefaultMaxFailedChecks {
					t.Errorf("MaxFailedChecks = %d, want default on parse failure", d.MaxFailedChecks)
				}
			},
		},
		{
			name: "quoted tokens are unwrapped",
			args: argsWith(map[int]string{
				posExecutablePath:   `"C:\Program Files\svc\app.exe"`,
				posWorkingDirectory: `"C:\Program Files\svc"`,
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.ExecutablePath != `C:\Program Files\svc\app.exe` {
					t.Errorf("ExecutablePath = %q, want unquoted", d.ExecutablePath)
				}
				if d.WorkingDirectory != `C:\Program Files\svc` {
					t.Errorf("WorkingDirectory = %q, want unquoted", d.WorkingDirectory)
				}
			},
		},
		{
			name: "environment example round trips into pairs",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
				posEnvironment:    `NODE_ENV=production;PORT=8080`,
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				want := []EnvPair{{Key: "NODE_ENV", Value: "production"}, {Key: "PORT", Value: "8080"}}
				if len(d.Environment) != len(want) {
					t.Fatalf("Environment = %+v, want %+v", d.Environment, want)
				}
				for i := range want {
					if d.Environment[i] != want[i] {
						t.Errorf("Environment[%d] = %+v, want %+v", i, d.Environment[i], want[i])
					}
				}
			},
		},
		{
			name: "malformed environment segment fails",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
				posEnvironment:    `NOVALUE`,
			}),
			wantErr: true,
		},
		{
			name: "duplicate environment keys fail",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
				posEnvironment:    `A=1;A=2`,
			}),
			wantErr: true,
		},
		{
			name: "pre-launch sub-vector decoded when its executable path is present",
			args: argsWith(map[int]string{
				posExecutablePath:    `C:\svc\app.exe`,
				posPreExecutablePath: `C:\svc\migrate.exe`,
				posPreTimeoutSeconds: "15",
				posPreRetryAttempts:  "2",
				posPreIgnoreFailure:  "true",
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.PreLaunch == nil {
					t.Fatal("PreLaunch = nil, want populated")
				}
				if d.PreLaunch.ExecutablePath != `C:\svc\migrate.exe` {
					t.Errorf("PreLaunch.ExecutablePath = %q", d.PreLaunch.ExecutablePath)
				}
				if d.PreLaunch.Timeout != 15*time.Second {
					t.Errorf("PreLaunch.Timeout = %v, want 15s", d.PreLaunch.Timeout)
				}
				if d.PreLaunch.RetryAttempts != 2 {
					t.Errorf("PreLaunch.RetryAttempts = %d, want 2", d.PreLaunch.RetryAttempts)
				}
				if !d.PreLaunch.IgnoreFailure {
					t.Error("PreLaunch.IgnoreFailure = false, want true")
				}
			},
		},
		{
			name: "empty pre-launch executable path omits pre-launch",
			args: argsWith(map[int]string{
				posExecutablePath: `C:\svc\app.exe`,
			}),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.PreLaunch != nil {
					t.Errorf("PreLaunch = %+v, want nil", d.PreLaunch)
				}
			},
		},
		{
			name: "service name taken from final positional argument",
			args: func() []string {
				a := argsWith(map[int]string{posExecutablePath: `C:\svc\app.exe`})
				return append(a, "my-service")
			}(),
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.ServiceName != "my-service" {
					t.Errorf("ServiceName = %q, want my-service", d.ServiceName)
				}
			},
		},
		{
			name: "short argument vector fills missing positions with defaults",
			args: []string{"", `C:\svc\app.exe`},
			wantErr: false,
			check: func(t *testing.T, d *ServiceDefinition) {
				if d.RotationSizeBytes != DefaultRotationSizeBytes {
					t.Errorf("RotationSizeBytes = %d, want default", d.RotationSizeBytes)
				}
				if d.ServiceName != "" {
					t.Errorf("ServiceName = %q, want empty", d.ServiceName)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	originals := []*ServiceDefinition{
		{
			ExecutablePath:     `C:\svc\app.exe`,
			ExecutableArgs:     "--flag value",
			WorkingDirectory:   `C:\svc`,
			Priority:           PriorityHigh,
			StdoutPath:         `C:\logs\out.log`,
			StderrPath:         `C:\logs\out.log`,
			RotationSizeBytes:  5 * 1024 * 1024,
			HeartbeatInterval:  45 * time.Second,
			MaxFailedChecks:    4,
			RecoveryAction:     RecoveryRestartProcess,
			MaxRestartAttempts: 2,
			Environment:        []EnvPair{{Key: "A", Value: "1"}, {Key: "B", Value: "two;three"}},
			Dependencies:       []string{"Tcpip", "Dnscache"},
			RunAsLocalSystem:   false,
			UserAccount:        `DOMAIN\svc-account`,
			Password:           "hunter2",
			ServiceName:        "my-service",
		},
		{
			ExecutablePath:   `C:\svc\worker.exe`,
			RunAsLocalSystem: true,
			PreLaunch: &PreLaunch{
				ExecutablePath: `C:\svc\migrate.exe`,
				Timeout:        10 * time.Second,
				RetryAttempts:  1,
				IgnoreFailure:  true,
			},
		},
	}

	for _, orig := range originals {
		got, err := Decode(Encode(orig))
		if err != nil {
			t.Fatalf("Decode(Encode(d)) error = %v", err)
		}
		if got.ExecutablePath != orig.ExecutablePath {
			t.Errorf("ExecutablePath = %q, want %q", got.ExecutablePath, orig.ExecutablePath)
		}
		if got.RunAsLocalSystem != orig.RunAsLocalSystem {
			t.Errorf("RunAsLocalSystem = %v, want %v", got.RunAsLocalSystem, orig.RunAsLocalSystem)
		}
		if got.ServiceName != orig.ServiceName {
			t.Errorf("ServiceName = %q, want %q", got.ServiceName, orig.ServiceName)
		}
		if len(got.Environment) != len(orig.Environment) {
			t.Fatalf("Environment = %+v, want %+v", got.Environment, orig.Environment)
		}
		for i := range orig.Environment {
			if got.Environment[i] != orig.Environment[i] {
				t.Errorf("Environment[%d] = %+v, want %+v", i, got.Environment[i], orig.Environment[i])
			}
		}
		if (got.PreLaunch == nil) != (orig.PreLaunch == nil) {
			t.Fatalf("PreLaunch presence = %v, want %v", got.PreLaunch != nil, orig.PreLaunch != nil)
		}
		if got.PreLaunch != nil && got.PreLaunch.ExecutablePath != orig.PreLaunch.ExecutablePath {
			t.Errorf("PreLaunch.ExecutablePath = %q, want %q", got.PreLaunch.ExecutablePath, orig.PreLaunch.ExecutablePath)
		}
	}
}
