package ports

// ServiceController dispatches the RestartService recovery action. Windows
// exposes no single-call "restart this service" primitive through
// golang.org/x/sys/windows/svc, so this is implemented by shelling out to a
// standalone restart-helper process rather than performed in-process.
type ServiceController interface {
	RestartService(name string) error
}

// ComputerController dispatches the RestartComputer recovery action.
type ComputerController interface {
	RestartComputer() error
}
