package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCrewSync = "crewplan.sync"

// CrewSyncPayload identifies the deal whose crew plan should be re-derived
// and merged into its production.
type CrewSyncPayload struct {
	WorkspaceID  string `json:"workspaceId"`
	DealID       string `json:"dealId"`
	ProductionID string `json:"productionId"`
}

func NewCrewSyncTask(payload CrewSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCrewSync, data), nil
}

func ParseCrewSyncPayload(task *asynq.Task) (CrewSyncPayload, error) {
	var payload CrewSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CrewSyncPayload{}, err
	}
	return payload, nil
}
