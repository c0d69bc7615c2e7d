package workflow

import (
	"contentstore/internal/queue"
	"contentstore/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Migrator stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

type pipeline struct {
	stages             []pipelineStage
	statusOrder        []queue.Status
	stageByStart       map[queue.Status]pipelineStage
	processingStatuses []queue.Status
}

func newPipeline(stages []pipelineStage) *pipeline {
	p := &pipeline{
		stages:       stages,
		stageByStart: make(map[queue.Status]pipelineStage, len(stages)),
		statusOrder:  make([]queue.Status, 0, len(stages)),
	}
	seenProcessing := make(map[queue.Status]struct{})
	for _, stg := range stages {
		p.stageByStart[stg.startStatus] = stg
		p.statusOrder = append(p.statusOrder, stg.startStatus)
		if _, ok := seenProcessing[stg.processingStatus]; !ok && stg.processingStatus != "" {
			p.processingStatuses = append(p.processingStatuses, stg.processingStatus)
			seenProcessing[stg.processingStatus] = struct{}{}
		}
	}
	return p
}

func (p *pipeline) stageForStatus(status queue.Status) (pipelineStage, bool) {
	if p == nil {
		return pipelineStage{}, false
	}
	stg, ok := p.stageByStart[status]
	return stg, ok
}

// ConfigureStages registers the concrete stage handlers the workflow will run.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage
	if set.Migrator != nil {
		stages = append(stages, pipelineStage{
			name:             "migrate",
			handler:          set.Migrator,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusMigrating,
			doneStatus:       queue.StatusCompleted,
		})
	}

	m.mu.Lock()
	m.pipeline = newPipeline(stages)
	m.mu.Unlock()
}
