// Package networth is the valuation and balance-caching core of a personal
// ledger tracking money in fiat accounts and a cryptocurrency accounted in
// its smallest unit.
//
// The core functionalities include:
//   - Balance Cache: an incrementally maintained record per account holding
//     an all-time running total and an "as of today" total, persisted and
//     rebuildable from scratch by replaying the ledger.
//   - Valuation Provider: reconstruction of every account's balance at an
//     arbitrary past date, converted to a target currency through a
//     historical daily rate series.
//   - Reports: all-time-high/drawdown, monthly totals, periodic wealth
//     overview and expense statistics, all pure functions over the
//     valuation provider.
//
// The ledger entry domain model, its persistence, and the rate import
// pipeline are external collaborators, consumed through the AccountSource,
// EntrySource and RateStore contracts.
package networth
