package physics

// ContactHandler receives every contact the world resolves, in resolution order.
type ContactHandler func(Contact)
