package io

// Wire types shared by all three encodings.

type library struct {
	Materials []material `json:"materials" yaml:"materials" toml:"materials"`
	Groups    []tree     `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
}

type material struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	UseNodes *bool  `json:"use_nodes,omitempty" yaml:"use_nodes,omitempty" toml:"use_nodes,omitempty"`
	Tree     *tree  `json:"tree,omitempty" yaml:"tree,omitempty" toml:"tree,omitempty"`
}

type tree struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes []node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links []link `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
}

type node struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type      string   `json:"type" yaml:"type" toml:"type"`
	Inputs    []socket `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Outputs   []socket `json:"outputs,omitempty" yaml:"outputs,omitempty" toml:"outputs,omitempty"`
	Operation string   `json:"operation,omitempty" yaml:"operation,omitempty" toml:"operation,omitempty"`
	BlendType string   `json:"blend_type,omitempty" yaml:"blend_type,omitempty" toml:"blend_type,omitempty"`
	Image     *image   `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	Group     string   `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
}

type socket struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

type image struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Filepath string `json:"filepath" yaml:"filepath" toml:"filepath"`
}

type link struct {
	FromNode   string `json:"from_node" yaml:"from_node" toml:"from_node"`
	FromSocket string `json:"from_socket" yaml:"from_socket" toml:"from_socket"`
	ToNode     string `json:"to_node" yaml:"to_node" toml:"to_node"`
	ToSocket   string `json:"to_socket" yaml:"to_socket" toml:"to_socket"`
}
