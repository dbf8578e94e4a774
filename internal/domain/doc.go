// Package domain defines the core business entities and their validation
// rules: users, tasks, projects, energy logs, teams, and task dependencies.
package domain
