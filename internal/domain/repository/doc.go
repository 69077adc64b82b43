// Package repository define las entidades de dominio y los contratos de
// persistencia que consumen los services. Las implementaciones viven en
// internal/store (pg, memory).
package repository
