package scoring

import "math"

func scoreBonuses(rc resolvedContext, timing TimingBreakdown) BonusBreakdown {
	var b BonusBreakdown
	if pick(rc.windowSyncForced, timing.allWindowsSynced()) {
		b.WindowSync = windowSyncBonus
	}
	b.Streak = math.Min(float64(rc.streakDays)*streakBonusPerDay, streakBonusMax)
	if rc.hydrationMet {
		b.Hydration = hydrationBonus
	}
	b.Total = math.Min(b.WindowSync+b.Streak+b.Hydration, bonusCap)
	return b
}

func scorePenalties(rc resolvedContext) PenaltyBreakdown {
	var p PenaltyBreakdown
	if rc.hardUnderfuel {
		p.HardUnderfuel = rc.penalties.HardUnderfuel
	}
	if rc.bigDeficit {
		p.BigDeficit = rc.penalties.BigDeficit
	}
	if rc.missedPostWindow {
		p.MissedPostWindow = rc.penalties.MissedPostWindow
	}
	p.Total = math.Max(p.HardUnderfuel+p.BigDeficit+p.MissedPostWindow, rc.penalties.Floor)
	return p
}

func scoreOverconsumption(rc resolvedContext) float64 {
	if rc.Targets.Calories <= 0 {
		return 0
	}
	if rc.Actuals.Calories > rc.Targets.Calories*rc.table.overconsumptionThreshold {
		return OverconsumptionPenalty
	}
	return 0
}
