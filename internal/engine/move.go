package engine

// move copies every source and removes the originals only once the whole
// copy succeeded. A cancelled or partially failed move leaves every source
// in place.
func (r *run) move() {
	r.copyAll()
	if r.stopped() || len(r.failures) > 0 {
		r.keptSrc = true
		r.e.logger.Info("sources kept", "cancelled", r.cancelled, "failures", len(r.failures))
		return
	}
	r.rep.Text("Removing originals")
	r.deleteAll(false)
}
