package observability

// Compose fans each operation out to several observers, for example
// metrics and tracing at the same time. Nil entries are skipped.
func Compose(observers ...Observer) Observer {
	var active []Observer
	for _, o := range observers {
		if o != nil {
			active = append(active, o)
		}
	}
	return multiObserver(active)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
