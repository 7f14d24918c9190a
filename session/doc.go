// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps per-browser state between requests.

The only state is a Pending upload: a spreadsheet that was parsed and
previewed but not yet saved. Handlers resolve the Session from the signed
cookie and hand it to the screen layer explicitly.

	st := session.NewStore(cfg.SessionTTL)
	go st.Run(ctx, time.Minute)

	s := st.Create()
	s.SetPending(&session.Pending{Filename: "poll.xlsx", Rows: res.Rows})

Sessions idle longer than the TTL disappear on the next Get or Sweep.
*/
package session
