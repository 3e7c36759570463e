// Package influxdb records brightness telemetry as time series, built
// on the official influxdb-client-go v2 library.
//
// Three measurements are written: the applied brightness per display,
// the outcome of each pass, and the day's solar instants. Plotting
// brightness against the solar windows is the easiest way to verify the
// curve behaves as configured across seasons.
//
// Writes go through the non-blocking batched API; failures surface
// through the SetOnError callback rather than as return values, so a
// down server never blocks a brightness pass.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.WriteBrightness("abc123", "dellu2412m", 1, 73, "summer")
package influxdb
