package root

import "strconv"

// resolveRef accepts a list position (1-based, as printed by `xp list`) or
// a task id prefix. Short numbers are positions; ids are at least 8 chars
// as printed.
func resolveRef(a *app, arg string) (string, error) {
	if len(arg) < 4 {
		if n, err := strconv.Atoi(arg); err == nil {
			tasks := a.svc.Tasks()
			if n >= 1 && n <= len(tasks) {
				return tasks[n-1].ID, nil
			}
		}
	}
	t, err := a.svc.Task(arg)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}
