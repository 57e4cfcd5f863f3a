package optimizer

import (
	"github.com/bytearena/raceline/common/utils"
)

// Stop interrupts a running Run and tears the orchestrator down
func (o *Orchestrator) Stop() {
	utils.Debug("optimizer", "TearDown from stop")

	o.mutex.Lock()
	cancel := o.cancel
	o.mutex.Unlock()

	if cancel != nil {
		cancel()
	}

	o.TearDown()
}

func (o *Orchestrator) AddTearDownCall(fn TearDownCallback) {
	o.tearDownCallbacksMutex.Lock()
	defer o.tearDownCallbacksMutex.Unlock()

	o.tearDownCallbacks = append(o.tearDownCallbacks, fn)
}

// TearDown runs the teardown callbacks in reverse order, once
func (o *Orchestrator) TearDown() {
	o.tearDownCallbacksMutex.Lock()
	defer o.tearDownCallbacksMutex.Unlock()

	for i := len(o.tearDownCallbacks) - 1; i >= 0; i-- {
		utils.Debug("teardown", "Executing TearDownCallback")
		if err := o.tearDownCallbacks[i](); err != nil {
			utils.Debug("teardown", "TearDownCallback failed: "+err.Error())
		}
	}

	o.tearDownCallbacks = make([]TearDownCallback, 0)
}
