package sim

// AgentPool owns a growable list of market-maker agents and ticks them
// sequentially against the engine, mirroring a C supervisor loop that
// iterates its agent array in place rather than fanning out: no internal
// parallelism, agents execute sequentially on each simulation tick.
type AgentPool struct {
	agents []*MarketMakerAgent
}

// NewAgentPool creates an empty pool.
func NewAgentPool() *AgentPool {
	return &AgentPool{}
}

// Add registers an agent with the pool.
func (p *AgentPool) Add(agent *MarketMakerAgent) {
	p.agents = append(p.agents, agent)
}

// Agents returns the pool's agents in registration order.
func (p *AgentPool) Agents() []*MarketMakerAgent {
	return p.agents
}

// TickAll ticks every agent in turn against eng.
func (p *AgentPool) TickAll(eng engineSubmitter) {
	for _, agent := range p.agents {
		agent.Tick(eng)
	}
}
