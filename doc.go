// Package portodash provides the core engine of a multi-account,
// multi-currency portfolio tracker. It is designed to be local-first and
// resilient: prices are resolved on a best-effort basis from unreliable
// upstream providers, and every value carries its provenance.
//
// The core functionalities include:
//   - Price Resolution: a waterfall over prioritized source adapters with a
//     fallback to the local snapshot history, producing a provenance-tagged
//     quote per ticker and never failing on upstream outages.
//   - Snapshot Persistence: a durable CSV history of daily portfolio
//     snapshots with at most one row set per calendar day (UTC).
//   - FX Rates: a small file-backed cache of conversion rates against the
//     reporting currency.
//   - Valuation: per-position and aggregate portfolio values combining
//     resolved prices, FX rates, and holdings.
//
// This package serves as the foundational logic for the `podo` command-line
// tool; the tool's interactive surfaces only render what this package computes.
package portodash
